// Package scheduler runs the periodic snapshot sweep: a cron-driven full
// reload of the remote catalog and ledger, keeping the local fallback data
// and the overdue figures from drifting too far between mutations.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/libradesk/libradesk/internal/refresh"
)

// SnapshotSweep periodically refreshes the local snapshot.
type SnapshotSweep struct {
	svc      *refresh.Service
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSweeping bool
	cancelFunc context.CancelFunc
}

// NewSnapshotSweep creates a sweep with a five-field cron schedule.
func NewSnapshotSweep(svc *refresh.Service, schedule string) *SnapshotSweep {
	return &SnapshotSweep{
		svc:      svc,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// Start begins the periodic sweep.
func (s *SnapshotSweep) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Snapshot sweep: started with schedule %q", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the sweep, waiting for a running reload. The lock
// is released before waiting so an in-flight sweep can finish.
func (s *SnapshotSweep) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancelFunc = nil
	ctx := s.cron.Stop()
	s.mu.Unlock()

	<-ctx.Done()
	log.Printf("Snapshot sweep: stopped")
}

// RunNow triggers an immediate sweep without waiting for the schedule.
func (s *SnapshotSweep) RunNow() {
	go s.runSweep()
}

// IsRunning reports whether the scheduler is active.
func (s *SnapshotSweep) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *SnapshotSweep) runSweep() {
	s.mu.Lock()
	if s.isSweeping {
		s.mu.Unlock()
		log.Printf("Snapshot sweep: previous sweep still in progress, skipping")
		return
	}
	s.isSweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSweeping = false
		s.mu.Unlock()
	}()

	if err := s.svc.All(context.Background()); err != nil {
		log.Printf("Snapshot sweep: refresh failed: %v", err)
	}
}

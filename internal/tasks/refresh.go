package tasks

import (
	"context"
	"fmt"

	"github.com/mikestefanello/backlite"

	"github.com/libradesk/libradesk/internal/refresh"
)

// RefreshCatalogTask reloads books, genres and members into the snapshot.
// Enqueued after every successful catalog or membership mutation and by
// the periodic sweep.
type RefreshCatalogTask struct{}

// Config returns the queue configuration for catalog refresh tasks.
func (t RefreshCatalogTask) Config() backlite.QueueConfig {
	return DefaultConfig().queueConfig("refresh_catalog")
}

// NewRefreshCatalogQueue creates the backlite queue for catalog refreshes.
func NewRefreshCatalogQueue(svc *refresh.Service) backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task RefreshCatalogTask) error {
		if err := svc.Catalog(ctx); err != nil {
			return fmt.Errorf("refresh catalog: %w", err)
		}
		return nil
	})
}

// RefreshLedgerTask reloads the borrow-record ledger into the snapshot.
// Enqueued after every successful borrow or return.
type RefreshLedgerTask struct{}

// Config returns the queue configuration for ledger refresh tasks.
func (t RefreshLedgerTask) Config() backlite.QueueConfig {
	return DefaultConfig().queueConfig("refresh_ledger")
}

// NewRefreshLedgerQueue creates the backlite queue for ledger refreshes.
func NewRefreshLedgerQueue(svc *refresh.Service) backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task RefreshLedgerTask) error {
		if err := svc.Ledger(ctx); err != nil {
			return fmt.Errorf("refresh ledger: %w", err)
		}
		return nil
	})
}

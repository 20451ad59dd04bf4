// Package refresh performs the full reload of the remote catalog and
// ledger into the local snapshot. There is no push channel from the remote
// store; a reload after each mutation plus a periodic sweep is the only
// way state converges.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/entities"
)

// Service reloads remote state wholesale into the snapshot tables.
type Service struct {
	client   *api.Client
	cache    *snapshot.Repository
	settings *settings.Repository
}

func NewService(client *api.Client, cache *snapshot.Repository, settingsRepo *settings.Repository) *Service {
	return &Service{client: client, cache: cache, settings: settingsRepo}
}

// Catalog reloads books, genres and members. Skipped without error when no
// principal is logged in; the snapshot keeps its previous contents. Genres
// and members are admin resources, so under a librarian identity a remote
// 403 on them is tolerated and only the books stay fresh.
func (s *Service) Catalog(ctx context.Context) error {
	books, err := s.client.ListBooks(ctx)
	if err != nil {
		return s.skipOrFail("catalog", err)
	}
	genres, genresErr := s.client.ListGenres(ctx)
	if genresErr != nil && !errors.Is(genresErr, api.ErrUnauthorized) {
		return s.skipOrFail("catalog", genresErr)
	}
	members, membersErr := s.client.ListMembers(ctx)
	if membersErr != nil && !errors.Is(membersErr, api.ErrUnauthorized) {
		return s.skipOrFail("catalog", membersErr)
	}

	if err := s.cache.ReplaceBooks(books); err != nil {
		return fmt.Errorf("replace books: %w", err)
	}
	if genresErr == nil {
		if err := s.cache.ReplaceGenres(genres); err != nil {
			return fmt.Errorf("replace genres: %w", err)
		}
	} else {
		log.Printf("refresh: keeping previous genres, fetch denied: %v", genresErr)
	}
	if membersErr == nil {
		if err := s.cache.ReplaceMembers(members); err != nil {
			return fmt.Errorf("replace members: %w", err)
		}
	} else {
		log.Printf("refresh: keeping previous members, fetch denied: %v", membersErr)
	}

	log.Printf("refresh: catalog snapshot replaced (%d books, %d genres, %d members)",
		len(books), len(genres), len(members))
	return nil
}

// Ledger reloads the borrow-record ledger.
func (s *Service) Ledger(ctx context.Context) error {
	records, err := s.client.ListBorrowRecords(ctx)
	if err != nil {
		return s.skipOrFail("ledger", err)
	}
	if err := s.cache.ReplaceBorrowRecords(records); err != nil {
		return fmt.Errorf("replace borrow records: %w", err)
	}
	log.Printf("refresh: ledger snapshot replaced (%d records)", len(records))
	return nil
}

// All reloads everything and records the outcome in the bookkeeping slots.
func (s *Service) All(ctx context.Context) error {
	err := s.Catalog(ctx)
	if err == nil {
		err = s.Ledger(ctx)
	}

	status, message := "ok", ""
	if err != nil {
		status, message = "failed", err.Error()
	}
	_ = s.settings.Set(entities.SettingKeySnapshotLastAt, time.Now().Format(time.RFC3339))
	_ = s.settings.Set(entities.SettingKeySnapshotLastStatus, status)
	_ = s.settings.Set(entities.SettingKeySnapshotLastMessage, message)

	return err
}

func (s *Service) skipOrFail(what string, err error) error {
	if errors.Is(err, api.ErrNoToken) {
		log.Printf("refresh: skipping %s refresh, no principal logged in", what)
		return nil
	}
	return fmt.Errorf("fetch %s: %w", what, err)
}

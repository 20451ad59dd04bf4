// Package catalog is the read-through, write-through repository for books
// and genres. Mutations return the authoritative record so callers can
// patch their local collection with that exact record, or trigger a full
// reload; success never implies a local pre-computed guess was correct.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/outcome"
	"github.com/libradesk/libradesk/internal/session"
)

// Refresher schedules a background snapshot refresh after a successful
// mutation. May be nil when the task queue is disabled.
type Refresher interface {
	RefreshCatalog() error
}

// Repository provides catalog operations against the remote store.
type Repository struct {
	client  *api.Client
	sess    *session.Session
	cache   *snapshot.Repository
	refresh Refresher
}

func NewRepository(client *api.Client, sess *session.Session, cache *snapshot.Repository, refresh Refresher) *Repository {
	return &Repository{client: client, sess: sess, cache: cache, refresh: refresh}
}

// ListBooks fetches the catalog. With no token the loader degrades to an
// empty collection; any other failure falls back to the snapshot so the
// console can still render a (possibly stale) read-only view.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	books, err := r.client.ListBooks(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return []entities.Book{}, nil
		}
		log.Printf("catalog: remote list failed, serving snapshot: %v", err)
		cached, cacheErr := r.cache.Books()
		if cacheErr != nil {
			return nil, api.WrapOutcome("catalog.list_books", err)
		}
		return cached, nil
	}
	return books, nil
}

// AvailableBooks filters the catalog to books that can be offered on a
// borrow form. This is the soft precondition of the lending engine: it
// narrows the presented choices but is not re-validated atomically.
func (r *Repository) AvailableBooks(ctx context.Context) ([]entities.Book, error) {
	books, err := r.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]entities.Book, 0, len(books))
	for _, b := range books {
		if b.HasAvailableCopies() {
			available = append(available, b)
		}
	}
	return available, nil
}

// CreateBook validates required fields locally, then creates the book.
func (r *Repository) CreateBook(ctx context.Context, fields api.BookFields) (*entities.Book, error) {
	const op = "catalog.create_book"
	if err := validateBookFields(op, fields); err != nil {
		return nil, err
	}

	book, err := r.client.CreateBook(ctx, fields)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return book, nil
}

// UpdateBook applies a partial update. Direct edits of available_copies are
// permitted and not reconciled against outstanding loans; ActiveLoanCount
// lets the presentation layer surface the divergence to the operator.
func (r *Repository) UpdateBook(ctx context.Context, id uint, patch api.BookPatch) (*entities.Book, error) {
	const op = "catalog.update_book"
	if patch.AvailableCopies != nil && *patch.AvailableCopies < 0 {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "available_copies must not be negative")
	}

	book, err := r.client.UpdateBook(ctx, id, patch)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return book, nil
}

// DeleteBook removes a book.
func (r *Repository) DeleteBook(ctx context.Context, id uint) error {
	if err := r.client.DeleteBook(ctx, id); err != nil {
		return api.WrapOutcome("catalog.delete_book", err)
	}
	r.scheduleRefresh()
	return nil
}

// ActiveLoanCount reports how many active loans the snapshot knows for a
// book. Zero with a nil error when the snapshot is empty.
func (r *Repository) ActiveLoanCount(bookID uint) int64 {
	count, err := r.cache.ActiveLoanCount(bookID)
	if err != nil {
		return 0
	}
	return count
}

// ListGenres fetches the genre taxonomy. Admin-only view.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	const op = "catalog.list_genres"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	genres, err := r.client.ListGenres(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return []entities.Genre{}, nil
		}
		return nil, api.WrapOutcome(op, err)
	}
	return genres, nil
}

// CreateGenre creates a genre. Admin-only.
func (r *Repository) CreateGenre(ctx context.Context, name string) (*entities.Genre, error) {
	const op = "catalog.create_genre"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "name is required")
	}

	genre, err := r.client.CreateGenre(ctx, name)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return genre, nil
}

// UpdateGenre renames a genre. Admin-only.
func (r *Repository) UpdateGenre(ctx context.Context, id uint, name string) (*entities.Genre, error) {
	const op = "catalog.update_genre"
	if err := r.sess.RequireAdmin(op); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "name is required")
	}

	genre, err := r.client.UpdateGenre(ctx, id, name)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return genre, nil
}

// DeleteGenre removes a genre. Admin-only; a genre still referenced by
// books surfaces as a conflict if the remote store refuses.
func (r *Repository) DeleteGenre(ctx context.Context, id uint) error {
	const op = "catalog.delete_genre"
	if err := r.sess.RequireAdmin(op); err != nil {
		return err
	}
	if err := r.client.DeleteGenre(ctx, id); err != nil {
		return api.WrapOutcome(op, err)
	}
	r.scheduleRefresh()
	return nil
}

func (r *Repository) scheduleRefresh() {
	if r.refresh == nil {
		return
	}
	if err := r.refresh.RefreshCatalog(); err != nil {
		log.Printf("catalog: failed to schedule snapshot refresh: %v", err)
	}
}

func validateBookFields(op string, fields api.BookFields) error {
	switch {
	case strings.TrimSpace(fields.Title) == "":
		return outcome.Errorf(outcome.ReasonValidation, op, "title is required")
	case strings.TrimSpace(fields.Author) == "":
		return outcome.Errorf(outcome.ReasonValidation, op, "author is required")
	case fields.GenreID == 0:
		return outcome.Errorf(outcome.ReasonValidation, op, "genre is required")
	case fields.AvailableCopies < 0:
		return outcome.Errorf(outcome.ReasonValidation, op, "available_copies must not be negative")
	default:
		return nil
	}
}

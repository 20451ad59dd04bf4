// Package lending orchestrates borrow and return transactions.
//
// The engine never mutates availability counters itself: a successful
// borrow or return means the remote store already adjusted the book's
// available_copies, and the client re-fetches to observe it. Preconditions
// checked here are soft: the presented book choices are filtered to
// positive availability, but two sessions can both pass that check for the
// last copy. The remote store is the single point of truth that rejects
// the second request, and that rejection is a normal, non-fatal outcome.
package lending

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/outcome"
)

// DueDateLayout is the calendar-date format of borrow forms.
const DueDateLayout = "2006-01-02"

// Refresher schedules background snapshot refreshes after a successful
// lending mutation. May be nil when the task queue is disabled.
type Refresher interface {
	RefreshCatalog() error
	RefreshLedger() error
}

// Engine drives the lending lifecycle against the remote store.
type Engine struct {
	client  *api.Client
	cache   *snapshot.Repository
	refresh Refresher
	now     func() time.Time
}

func NewEngine(client *api.Client, cache *snapshot.Repository, refresh Refresher) *Engine {
	return &Engine{client: client, cache: cache, refresh: refresh, now: time.Now}
}

// ListRecords fetches the lending ledger, newest first. With no token the
// loader degrades to an empty ledger; other failures fall back to the
// snapshot.
func (e *Engine) ListRecords(ctx context.Context) ([]entities.BorrowRecord, error) {
	records, err := e.client.ListBorrowRecords(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return []entities.BorrowRecord{}, nil
		}
		log.Printf("lending: remote ledger fetch failed, serving snapshot: %v", err)
		cached, cacheErr := e.cache.BorrowRecords()
		if cacheErr != nil {
			return nil, api.WrapOutcome("lending.list_records", err)
		}
		return cached, nil
	}
	return records, nil
}

// Borrow opens a lending transaction. due is a calendar date in
// DueDateLayout and must not be in the past. On success the new Active
// record is returned for the caller to prepend to its ledger view; the
// availability decrement happened remotely and is observed on the next
// reload. A last-copy race surfaces as a conflict; the caller re-lists.
func (e *Engine) Borrow(ctx context.Context, bookID, memberID uint, due string) (*entities.BorrowRecord, error) {
	const op = "lending.borrow"
	switch {
	case bookID == 0:
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "book is required")
	case memberID == 0:
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "member is required")
	}

	dueDate, err := time.ParseInLocation(DueDateLayout, due, time.Local)
	if err != nil {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "due_date must be a %s date", DueDateLayout)
	}
	if dueDate.Before(e.today()) {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "due_date must not be in the past")
	}

	record, err := e.client.Borrow(ctx, api.BorrowRequest{
		BookID:   bookID,
		MemberID: memberID,
		DueDate:  due,
	})
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}

	e.scheduleRefresh()
	return record, nil
}

// Return closes a lending transaction. The caller replaces its local copy
// of the record with the returned representation. The console disables the
// return action once return_date is set, but that guard is UI-level only:
// under concurrent sessions the remote store rejects the second return,
// which surfaces here as a conflict.
func (e *Engine) Return(ctx context.Context, borrowRecordID uint) (*entities.BorrowRecord, error) {
	const op = "lending.return"
	if borrowRecordID == 0 {
		return nil, outcome.Errorf(outcome.ReasonValidation, op, "borrow record is required")
	}

	record, err := e.client.Return(ctx, borrowRecordID)
	if err != nil {
		return nil, api.WrapOutcome(op, err)
	}

	e.scheduleRefresh()
	return record, nil
}

func (e *Engine) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

func (e *Engine) scheduleRefresh() {
	if e.refresh == nil {
		return
	}
	if err := e.refresh.RefreshCatalog(); err != nil {
		log.Printf("lending: failed to schedule catalog refresh: %v", err)
	}
	if err := e.refresh.RefreshLedger(); err != nil {
		log.Printf("lending: failed to schedule ledger refresh: %v", err)
	}
}

// StatusFilter narrows a ledger view.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterReturned StatusFilter = "returned"
)

// FilterRecords applies a status filter and a free-text search over book
// title, member name and raw IDs, mirroring the ledger view's controls.
// The input order is preserved.
func FilterRecords(records []entities.BorrowRecord, filter StatusFilter, query string) []entities.BorrowRecord {
	out := make([]entities.BorrowRecord, 0, len(records))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, rec := range records {
		switch filter {
		case FilterActive:
			if !rec.IsActive() {
				continue
			}
		case FilterReturned:
			if rec.IsActive() {
				continue
			}
		}
		if q != "" && !matchesQuery(rec, q) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesQuery(rec entities.BorrowRecord, q string) bool {
	if rec.Book != nil && strings.Contains(strings.ToLower(rec.Book.Title), q) {
		return true
	}
	if rec.Member != nil && strings.Contains(strings.ToLower(rec.Member.Name), q) {
		return true
	}
	bookID := strconv.FormatUint(uint64(rec.BookID), 10)
	memberID := strconv.FormatUint(uint64(rec.MemberID), 10)
	return strings.Contains(bookID, q) || strings.Contains(memberID, q)
}

// PrependRecord puts a freshly created record at the top of a ledger view.
func PrependRecord(records []entities.BorrowRecord, record entities.BorrowRecord) []entities.BorrowRecord {
	return append([]entities.BorrowRecord{record}, records...)
}

// ReplaceRecord swaps a record in place with the server's representation,
// the local half of the cache-invalidation contract after a return.
func ReplaceRecord(records []entities.BorrowRecord, record entities.BorrowRecord) []entities.BorrowRecord {
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			break
		}
	}
	return records
}

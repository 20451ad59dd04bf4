package api

import (
	"context"
	"net/http"

	"github.com/libradesk/libradesk/internal/entities"
)

// BorrowRequest asks the remote store to open a lending transaction. The
// due date travels as a calendar date; time-of-day is the store's concern.
type BorrowRequest struct {
	BookID   uint   `json:"book_id"`
	MemberID uint   `json:"member_id"`
	DueDate  string `json:"due_date"` // YYYY-MM-DD
}

type returnRequest struct {
	BorrowRecordID uint `json:"borrow_record_id"`
}

// ListBorrowRecords fetches the full lending ledger, newest first.
func (c *Client) ListBorrowRecords(ctx context.Context) ([]entities.BorrowRecord, error) {
	var records []entities.BorrowRecord
	if err := c.get(ctx, "/borrow-records", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Borrow opens a lending transaction. On success the remote store has
// already decremented the book's availability; the returned record is the
// authoritative representation. A race on the last copy comes back as
// ErrConflict and must be treated as a normal outcome.
func (c *Client) Borrow(ctx context.Context, req BorrowRequest) (*entities.BorrowRecord, error) {
	var record entities.BorrowRecord
	if err := c.send(ctx, http.MethodPost, "/borrow-records/borrow", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Return closes a lending transaction. The remote store sets return_date,
// increments the book's availability, and rejects a second return of the
// same record.
func (c *Client) Return(ctx context.Context, borrowRecordID uint) (*entities.BorrowRecord, error) {
	var record entities.BorrowRecord
	if err := c.send(ctx, http.MethodPost, "/borrow-records/return", returnRequest{BorrowRecordID: borrowRecordID}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

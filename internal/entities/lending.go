package entities

import "time"

// BorrowStatus is derived from a record's dates, never persisted. The remote
// store also carries a status column on some deployments, but stale stored
// statuses caused double-counting in reports, so this client computes status
// from return_date/due_date exclusively.
type BorrowStatus string

const (
	BorrowStatusActive   BorrowStatus = "active"
	BorrowStatusReturned BorrowStatus = "returned"
	BorrowStatusOverdue  BorrowStatus = "overdue"
)

// BorrowRecord is one lending transaction. A record is Active while
// return_date is null and Returned (terminal) once it is set. Exactly one
// record may be active per physical copy, enforced by the remote store
// through the book's availability counter.
type BorrowRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BookID     uint           `gorm:"index" json:"book_id"`
	MemberID   uint           `gorm:"index" json:"member_id"`
	BorrowDate time.Time      `json:"borrow_date"`
	DueDate    time.Time      `json:"due_date"`
	ReturnDate *time.Time     `json:"return_date"`
	Book       *Book          `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member     *MemberSummary `gorm:"-" json:"member,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (BorrowRecord) TableName() string {
	return "borrow_records"
}

// IsActive reports whether the record has not been returned yet.
func (r BorrowRecord) IsActive() bool {
	return r.ReturnDate == nil
}

// IsOverdueAt reports whether the record is active and past due at the given
// instant. A record due exactly now is not overdue.
func (r BorrowRecord) IsOverdueAt(now time.Time) bool {
	return r.IsActive() && r.DueDate.Before(now)
}

// StatusAt derives the record's status at the given instant.
func (r BorrowRecord) StatusAt(now time.Time) BorrowStatus {
	switch {
	case !r.IsActive():
		return BorrowStatusReturned
	case r.DueDate.Before(now):
		return BorrowStatusOverdue
	default:
		return BorrowStatusActive
	}
}

// DaysOverdueAt returns the whole days the record is past due, floored at 0
// for a record evaluated at the exact due boundary.
func (r BorrowRecord) DaysOverdueAt(now time.Time) int {
	if !r.IsOverdueAt(now) {
		return 0
	}
	days := int(now.Sub(r.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DurationDays returns the whole days between borrow and return. Only
// meaningful for returned records; returns 0 otherwise.
func (r BorrowRecord) DurationDays() int {
	if r.ReturnDate == nil {
		return 0
	}
	return int(r.ReturnDate.Sub(r.BorrowDate).Hours() / 24)
}

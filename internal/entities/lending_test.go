package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestBorrowRecord_StatusAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		record   BorrowRecord
		expected BorrowStatus
	}{
		{
			name:     "active before due date",
			record:   BorrowRecord{DueDate: now.Add(48 * time.Hour)},
			expected: BorrowStatusActive,
		},
		{
			name:     "overdue past due date",
			record:   BorrowRecord{DueDate: now.Add(-48 * time.Hour)},
			expected: BorrowStatusOverdue,
		},
		{
			name:     "due exactly now is not overdue",
			record:   BorrowRecord{DueDate: now},
			expected: BorrowStatusActive,
		},
		{
			name: "returned is terminal even when past due",
			record: BorrowRecord{
				DueDate:    now.Add(-48 * time.Hour),
				ReturnDate: timePtr(now.Add(-24 * time.Hour)),
			},
			expected: BorrowStatusReturned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.StatusAt(now))
		})
	}
}

func TestBorrowRecord_DaysOverdueAt(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	rec := BorrowRecord{DueDate: time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)}
	assert.Equal(t, 3, rec.DaysOverdueAt(now))

	// Overdue by hours but less than a full day floors to 0.
	rec = BorrowRecord{DueDate: now.Add(-6 * time.Hour)}
	assert.Equal(t, 0, rec.DaysOverdueAt(now))

	// Not yet due.
	rec = BorrowRecord{DueDate: now.Add(24 * time.Hour)}
	assert.Equal(t, 0, rec.DaysOverdueAt(now))

	// Returned records are never overdue.
	rec = BorrowRecord{DueDate: now.Add(-72 * time.Hour), ReturnDate: timePtr(now)}
	assert.Equal(t, 0, rec.DaysOverdueAt(now))
}

func TestBorrowRecord_DurationDays(t *testing.T) {
	borrowed := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	rec := BorrowRecord{BorrowDate: borrowed, ReturnDate: timePtr(borrowed.AddDate(0, 0, 14))}
	assert.Equal(t, 14, rec.DurationDays())

	rec = BorrowRecord{BorrowDate: borrowed}
	assert.Equal(t, 0, rec.DurationDays())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleLibrarian.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestBook_HasAvailableCopies(t *testing.T) {
	assert.True(t, Book{AvailableCopies: 1}.HasAvailableCopies())
	assert.False(t, Book{AvailableCopies: 0}.HasAvailableCopies())
}

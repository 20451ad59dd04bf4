package lending

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/outcome"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func setupEngine(t *testing.T, serverURL string) (*Engine, *snapshot.Repository, func()) {
	dbPath := "./test_lending_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Genre{}, &entities.Book{}, &entities.BorrowRecord{}))

	client := api.NewClient(serverURL, 0, api.StaticToken("test-token"))
	cache := snapshot.NewRepository(db)
	engine := NewEngine(client, cache, nil)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return engine, cache, cleanup
}

// lendingFake simulates the remote store's availability counter so the
// last-copy race can be exercised: the first borrow of the final copy
// succeeds, the second conflicts.
type lendingFake struct {
	availableCopies int
	nextRecordID    uint
}

func (f *lendingFake) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/borrow-records/borrow" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req api.BorrowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if f.availableCopies <= 0 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		f.availableCopies--
		f.nextRecordID++

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":%d,"book_id":%d,"member_id":%d,"borrow_date":%q,"due_date":%q}`,
			f.nextRecordID, req.BookID, req.MemberID,
			time.Now().UTC().Format(time.RFC3339),
			req.DueDate+"T00:00:00Z")
	}
}

func TestEngine_Borrow_Validation(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	engine, _, cleanup := setupEngine(t, server.URL)
	defer cleanup()

	due := time.Now().AddDate(0, 0, 14).Format(DueDateLayout)

	tests := []struct {
		name     string
		bookID   uint
		memberID uint
		due      string
	}{
		{"missing book", 0, 2, due},
		{"missing member", 1, 0, due},
		{"malformed date", 1, 2, "14-09-2026"},
		{"past due date", 1, 2, time.Now().AddDate(0, 0, -1).Format(DueDateLayout)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Borrow(context.Background(), tt.bookID, tt.memberID, tt.due)
			assert.Equal(t, outcome.ReasonValidation, outcome.ReasonOf(err))
		})
	}
	assert.Equal(t, 0, requests, "failing validation must not issue a request")
}

func TestEngine_Borrow_DueToday(t *testing.T) {
	fake := &lendingFake{availableCopies: 1}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	engine, _, cleanup := setupEngine(t, server.URL)
	defer cleanup()

	// Today is an acceptable due date; only strictly past dates fail.
	record, err := engine.Borrow(context.Background(), 1, 2, time.Now().Format(DueDateLayout))
	require.NoError(t, err)
	assert.Equal(t, uint(1), record.ID)
}

func TestEngine_Borrow_LastCopyRace(t *testing.T) {
	fake := &lendingFake{availableCopies: 1}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	engine, _, cleanup := setupEngine(t, server.URL)
	defer cleanup()

	due := time.Now().AddDate(0, 0, 14).Format(DueDateLayout)

	// Both sessions saw the last copy as available; the remote store is the
	// tiebreaker.
	record, err := engine.Borrow(context.Background(), 1, 2, due)
	require.NoError(t, err)
	assert.True(t, record.IsActive())

	_, err = engine.Borrow(context.Background(), 1, 3, due)
	assert.Equal(t, outcome.ReasonConflict, outcome.ReasonOf(err))
}

func TestEngine_Return_AlreadyReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	engine, _, cleanup := setupEngine(t, server.URL)
	defer cleanup()

	_, err := engine.Return(context.Background(), 5)
	assert.Equal(t, outcome.ReasonConflict, outcome.ReasonOf(err))
}

func TestEngine_Return_MissingRecordID(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	engine, _, cleanup := setupEngine(t, server.URL)
	defer cleanup()

	_, err := engine.Return(context.Background(), 0)
	assert.Equal(t, outcome.ReasonValidation, outcome.ReasonOf(err))
	assert.Equal(t, 0, requests)
}

func TestEngine_ListRecords_SnapshotFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	engine, cache, cleanup := setupEngine(t, server.URL)
	defer cleanup()

	now := time.Now()
	require.NoError(t, cache.ReplaceBorrowRecords([]entities.BorrowRecord{
		{ID: 1, BookID: 1, MemberID: 1, BorrowDate: now, DueDate: now.AddDate(0, 0, 14)},
	}))

	records, err := engine.ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint(1), records[0].ID)
}

func TestFilterRecords(t *testing.T) {
	now := time.Now()
	returned := now.Add(-time.Hour)
	records := []entities.BorrowRecord{
		{ID: 1, BookID: 10, MemberID: 20, Book: &entities.Book{Title: "Dune"}, Member: &entities.MemberSummary{Name: "Ada"}},
		{ID: 2, BookID: 11, MemberID: 21, Book: &entities.Book{Title: "Neuromancer"}, Member: &entities.MemberSummary{Name: "Grace"}, ReturnDate: &returned},
	}

	active := FilterRecords(records, FilterActive, "")
	require.Len(t, active, 1)
	assert.Equal(t, uint(1), active[0].ID)

	done := FilterRecords(records, FilterReturned, "")
	require.Len(t, done, 1)
	assert.Equal(t, uint(2), done[0].ID)

	// Case-insensitive match on book title.
	byTitle := FilterRecords(records, FilterAll, "dune")
	require.Len(t, byTitle, 1)
	assert.Equal(t, uint(1), byTitle[0].ID)

	// Match on member name.
	byMember := FilterRecords(records, FilterAll, "grace")
	require.Len(t, byMember, 1)
	assert.Equal(t, uint(2), byMember[0].ID)

	// Match on raw IDs.
	byID := FilterRecords(records, FilterAll, "21")
	require.Len(t, byID, 1)
	assert.Equal(t, uint(2), byID[0].ID)

	assert.Empty(t, FilterRecords(records, FilterAll, "zzz"))
}

func TestPrependAndReplaceRecord(t *testing.T) {
	records := []entities.BorrowRecord{{ID: 2}, {ID: 1}}

	records = PrependRecord(records, entities.BorrowRecord{ID: 3})
	require.Len(t, records, 3)
	assert.Equal(t, uint(3), records[0].ID)

	now := time.Now()
	records = ReplaceRecord(records, entities.BorrowRecord{ID: 1, ReturnDate: &now})
	assert.NotNil(t, records[2].ReturnDate)
}

// Package snapshot stores the last full reload of the remote catalog and
// ledger. There is no field-level merge: each refresh replaces a table
// wholesale, mirroring the reload-after-mutation contract of the console.
// The snapshot feeds the client-side report fallback and read-only views
// when the remote store is unreachable.
package snapshot

import (
	"gorm.io/gorm"

	"github.com/libradesk/libradesk/internal/entities"
)

// Repository handles snapshot reads and wholesale replacement.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new snapshot repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceBooks swaps the cached catalog for the given authoritative list.
func (r *Repository) ReplaceBooks(books []entities.Book) error {
	return r.replace(&entities.Book{}, books)
}

// ReplaceGenres swaps the cached genre taxonomy.
func (r *Repository) ReplaceGenres(genres []entities.Genre) error {
	return r.replace(&entities.Genre{}, genres)
}

// ReplaceMembers swaps the cached member list.
func (r *Repository) ReplaceMembers(members []entities.Member) error {
	return r.replace(&entities.Member{}, members)
}

// ReplaceBorrowRecords swaps the cached lending ledger.
func (r *Repository) ReplaceBorrowRecords(records []entities.BorrowRecord) error {
	return r.replace(&entities.BorrowRecord{}, records)
}

func (r *Repository) replace(model any, rows any) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

// Books returns the cached catalog.
func (r *Repository) Books() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Genre").Order("id").Find(&books).Error
	return books, err
}

// Genres returns the cached genre taxonomy.
func (r *Repository) Genres() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("id").Find(&genres).Error
	return genres, err
}

// Members returns the cached member list.
func (r *Repository) Members() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Order("id").Find(&members).Error
	return members, err
}

// BorrowRecords returns the cached ledger, newest first, matching the
// ordering the remote store serves. Member summaries are rejoined from the
// cached member list so ledger search by member name keeps working when the
// console is serving snapshot data.
func (r *Repository) BorrowRecords() ([]entities.BorrowRecord, error) {
	var records []entities.BorrowRecord
	if err := r.db.Preload("Book").Preload("Book.Genre").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	members, err := r.Members()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]entities.MemberSummary, len(members))
	for _, m := range members {
		byID[m.ID] = m.Summary()
	}
	for i := range records {
		if summary, ok := byID[records[i].MemberID]; ok {
			records[i].Member = &summary
		}
	}
	return records, nil
}

// ActiveLoanCount counts cached active records for one book. Used to warn
// the operator when a direct edit of available_copies diverges from the
// outstanding loans the snapshot knows about.
func (r *Repository) ActiveLoanCount(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.BorrowRecord{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error
	return count, err
}

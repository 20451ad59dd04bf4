package entities

import "time"

// Book is a catalog entry. Copies are fungible: the catalog tracks only a
// count of copies currently on the shelf, not individual copy identities.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Author          string    `gorm:"index;size:256" json:"author"`
	PublicationYear int       `json:"publication_year,omitempty"`
	GenreID         uint      `gorm:"index" json:"genre_id"`
	Genre           *Genre    `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// HasAvailableCopies reports whether the book can be offered for borrowing.
func (b Book) HasAvailableCopies() bool {
	return b.AvailableCopies > 0
}

// Genre is a taxonomy entry referenced by books. Names are unique within the
// catalog. Deletion of a genre still referenced by books is the remote
// store's call; the client only surfaces the rejection.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

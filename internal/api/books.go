package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/libradesk/libradesk/internal/entities"
)

// BookFields is the payload for creating a book.
type BookFields struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	GenreID         uint   `json:"genre_id"`
	AvailableCopies int    `json:"available_copies"`
}

// BookPatch carries the fields of a partial update. Nil fields are omitted
// from the request body and left untouched by the remote store.
type BookPatch struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	GenreID         *uint   `json:"genre_id,omitempty"`
	AvailableCopies *int    `json:"available_copies,omitempty"`
}

// ListBooks fetches the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.get(ctx, "/books", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook creates a book and returns the authoritative record.
func (c *Client) CreateBook(ctx context.Context, fields BookFields) (*entities.Book, error) {
	var book entities.Book
	if err := c.send(ctx, http.MethodPost, "/books", fields, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook applies a partial update and returns the authoritative record.
// A direct edit of available_copies through this call bypasses the lending
// engine's counter invariant; callers surface that to the operator.
func (c *Client) UpdateBook(ctx context.Context, id uint, patch BookPatch) (*entities.Book, error) {
	var book entities.Book
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/books/%d", id), patch, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id uint) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}

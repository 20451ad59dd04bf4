package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/libradesk/libradesk/internal/entities"
)

type genrePayload struct {
	Name string `json:"name"`
}

// ListGenres fetches the genre taxonomy.
func (c *Client) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	if err := c.get(ctx, "/genres", &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// CreateGenre creates a genre and returns the authoritative record.
func (c *Client) CreateGenre(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	if err := c.send(ctx, http.MethodPost, "/genres", genrePayload{Name: name}, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// UpdateGenre renames a genre.
func (c *Client) UpdateGenre(ctx context.Context, id uint, name string) (*entities.Genre, error) {
	var genre entities.Genre
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/genres/%d", id), genrePayload{Name: name}, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// DeleteGenre removes a genre. Whether a genre still referenced by books may
// be deleted is the remote store's policy; a refusal surfaces as ErrConflict.
func (c *Client) DeleteGenre(ctx context.Context, id uint) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/genres/%d", id), nil, nil)
}

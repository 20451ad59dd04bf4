package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libradesk/libradesk/internal/entities"
)

func TestClient_ListBooks_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"Dune","author":"Frank Herbert","genre_id":2,"available_copies":3}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken("secret-token"))

	books, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, 3, books[0].AvailableCopies)
}

func TestClient_ListBooks_NoToken(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken(""))

	_, err := client.ListBooks(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, 0, requests, "no request should be issued without a token")
}

func TestClient_CreateBook_SendsRequestID(t *testing.T) {
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"title":"Dune","author":"Frank Herbert","genre_id":2,"available_copies":3}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken("token"))

	book, err := client.CreateBook(context.Background(), BookFields{
		Title:           "Dune",
		Author:          "Frank Herbert",
		GenreID:         2,
		AvailableCopies: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), book.ID)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"conflict", http.StatusConflict, ErrConflict},
		{"bad request", http.StatusBadRequest, ErrConflict},
		{"unprocessable", http.StatusUnprocessableEntity, ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, 0, StaticToken("token"))
			_, err := client.ListBooks(context.Background())
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken("token"))
	_, err := client.ListBooks(context.Background())

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Error(), "boom")
}

func TestClient_Login_NoTokenRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":1,"username":"admin","role":"admin"},"token":"issued-token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken(""))

	resp, err := client.Login(context.Background(), Credentials{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "issued-token", resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, entities.RoleAdmin, resp.User.Role)
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken(""))

	_, err := client.Login(context.Background(), Credentials{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_Borrow_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, StaticToken("token"))

	_, err := client.Borrow(context.Background(), BorrowRequest{BookID: 1, MemberID: 2, DueDate: "2026-09-20"})
	assert.ErrorIs(t, err, ErrConflict)
}

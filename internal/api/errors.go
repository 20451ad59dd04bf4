package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoToken indicates an authenticated call was attempted with no stored
// bearer credential. Loaders treat this as "present empty collections", not
// as a failure worth a notification.
var ErrNoToken = errors.New("no bearer token available")

// ErrUnauthorized indicates the remote store rejected the credential.
var ErrUnauthorized = errors.New("remote store rejected the bearer credential")

// ErrNotFound indicates the addressed record does not exist remotely.
var ErrNotFound = errors.New("record not found")

// ErrConflict indicates the remote store refused a mutation that would
// violate an invariant: borrowing with zero availability, returning an
// already-returned record, deleting a referenced genre.
var ErrConflict = errors.New("mutation conflicts with authoritative state")

// RemoteError is any other non-success response from the remote store.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote store returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("remote store returned HTTP %d: %s", e.StatusCode, e.Body)
}

const maxErrorBody = 512

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrConflict
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

// Package outcome defines the typed failure taxonomy shared by every
// repository operation. The presentation layer picks notification text from
// the reason code, never from caught error strings, and no reason is fatal
// to the process: every failure is recoverable by a manual retry.
package outcome

import (
	"errors"
	"fmt"
)

// Reason classifies why an operation failed.
type Reason string

const (
	// ReasonValidation: a required field was missing or malformed. Detected
	// locally; no request was issued.
	ReasonValidation Reason = "validation"

	// ReasonDenied: the current principal lacks the role for this view.
	// Detected locally; no request was issued.
	ReasonDenied Reason = "denied"

	// ReasonUnauthenticated: no principal is logged in, or the remote store
	// rejected the bearer credential.
	ReasonUnauthenticated Reason = "unauthenticated"

	// ReasonNotFound: the remote store has no such record.
	ReasonNotFound Reason = "not_found"

	// ReasonConflict: the remote store rejected the mutation because it
	// would violate an invariant, e.g. borrowing a book whose last copy was
	// taken by a concurrent session, or returning a record twice.
	ReasonConflict Reason = "conflict"

	// ReasonRemote: any other non-success response from the remote store.
	ReasonRemote Reason = "remote"

	// ReasonTransport: the request never completed (network failure,
	// timeout, undecodable response body).
	ReasonTransport Reason = "transport"
)

// Error is a failure with a machine-readable reason.
type Error struct {
	Reason Reason
	Op     string // operation that failed, e.g. "catalog.create_book"
	Err    error  // underlying cause, may be nil for local failures
	Msg    string // human-oriented detail, e.g. the failing field
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Reason, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Reason, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an outcome error with a formatted detail message.
func Errorf(reason Reason, op, format string, args ...any) *Error {
	return &Error{Reason: reason, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a reason and operation to an underlying error.
func Wrap(reason Reason, op string, err error) *Error {
	return &Error{Reason: reason, Op: op, Err: err}
}

// ReasonOf extracts the reason from an error chain. Errors without an
// outcome classification count as transport failures.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Reason
	}
	return ReasonTransport
}

// IsLocal reports whether the failure was detected before any request was
// issued, meaning remote state cannot have changed.
func IsLocal(err error) bool {
	r := ReasonOf(err)
	return r == ReasonValidation || r == ReasonDenied
}

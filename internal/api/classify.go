package api

import (
	"errors"

	"github.com/libradesk/libradesk/internal/outcome"
)

// WrapOutcome classifies a client error into the console's failure
// taxonomy. ErrNoToken maps to unauthenticated so loaders can degrade to
// empty collections instead of raising a notification.
func WrapOutcome(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNoToken), errors.Is(err, ErrUnauthorized):
		return outcome.Wrap(outcome.ReasonUnauthenticated, op, err)
	case errors.Is(err, ErrNotFound):
		return outcome.Wrap(outcome.ReasonNotFound, op, err)
	case errors.Is(err, ErrConflict):
		return outcome.Wrap(outcome.ReasonConflict, op, err)
	default:
		var remote *RemoteError
		if errors.As(err, &remote) {
			return outcome.Wrap(outcome.ReasonRemote, op, err)
		}
		return outcome.Wrap(outcome.ReasonTransport, op, err)
	}
}

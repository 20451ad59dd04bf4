package outcome

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorf_CarriesReasonAndOp(t *testing.T) {
	err := Errorf(ReasonValidation, "lending.borrow", "due_date must be a %s date", "2006-01-02")

	assert.Equal(t, ReasonValidation, ReasonOf(err))
	assert.Contains(t, err.Error(), "lending.borrow")
	assert.Contains(t, err.Error(), "due_date must be a 2006-01-02 date")
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ReasonTransport, "api.list_books", cause)

	assert.Equal(t, ReasonTransport, ReasonOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestReasonOf_WrappedDeeper(t *testing.T) {
	inner := Errorf(ReasonConflict, "lending.borrow", "no copies available")
	outer := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, ReasonConflict, ReasonOf(outer))
}

func TestReasonOf_PlainError(t *testing.T) {
	assert.Equal(t, ReasonTransport, ReasonOf(errors.New("something else")))
}

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal(Errorf(ReasonValidation, "op", "bad input")))
	assert.True(t, IsLocal(Errorf(ReasonDenied, "op", "not allowed")))
	assert.False(t, IsLocal(Errorf(ReasonRemote, "op", "upstream broke")))
	assert.False(t, IsLocal(Errorf(ReasonConflict, "op", "conflict")))
}

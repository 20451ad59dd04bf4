package console

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/outcome"
)

// --- Response Types ---

// ErrorResponse is the standard error payload. Code carries the outcome
// reason so the UI picks notification text from it rather than from error
// strings. The triggering form stays open client-side; every failure is
// recoverable by a manual retry.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse is a standard success payload with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

func statusForReason(reason outcome.Reason) int {
	switch reason {
	case outcome.ReasonValidation:
		return http.StatusBadRequest
	case outcome.ReasonDenied:
		return http.StatusForbidden
	case outcome.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case outcome.ReasonNotFound:
		return http.StatusNotFound
	case outcome.ReasonConflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// respondOutcome logs the failure and renders it with the operation's
// user-facing message ("Failed to add member", ...). The reason decides the
// status code and travels as the machine-readable code.
func respondOutcome(c *gin.Context, err error, message string) {
	reason := outcome.ReasonOf(err)
	log.Printf("console: %s: %v", message, err)
	observeFailure(reason)
	c.JSON(statusForReason(reason), ErrorResponse{Error: message, Code: string(reason)})
}

// respondBadRequest sends a 400 with a validation code.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: string(outcome.ReasonValidation)})
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

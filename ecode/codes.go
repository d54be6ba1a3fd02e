package ecode

import (
	"errors"
	"net/http"
	"sync"

	"github.com/ncobase/ncrud/cursor"
	"github.com/ncobase/ncrud/glob"
	"github.com/ncobase/ncrud/token"
	"github.com/ncobase/ncrud/typebuf"
)

// Business codes
const (
	OK = 0

	RequestErr = -400
	ParamErr   = -401
	NotFound   = -404
	Conflict   = -409

	InvalidCursor   = -410
	CursorMismatch  = -411
	UnsupportedType = -412
	InvalidFrame    = -413
	InvalidPattern  = -414

	ServerErr          = -500
	ServiceUnavailable = -503
)

var (
	mu       sync.RWMutex
	messages = map[int]string{
		OK:                 "ok",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		NotFound:           "Resource not found",
		Conflict:           "Resource conflict",
		InvalidCursor:      "Invalid continuation token",
		CursorMismatch:     "Continuation token does not match this query",
		UnsupportedType:    "Unsupported token value type",
		InvalidFrame:       "Invalid message frame",
		InvalidPattern:     "Invalid pattern",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		NotFound:           http.StatusNotFound,
		Conflict:           http.StatusConflict,
		InvalidCursor:      http.StatusBadRequest,
		CursorMismatch:     http.StatusBadRequest,
		UnsupportedType:    http.StatusInternalServerError,
		InvalidFrame:       http.StatusBadRequest,
		InvalidPattern:     http.StatusBadRequest,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
	}
)

// Text returns the message registered for code.
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// Register adds or replaces the message of an application code. Custom codes
// map to HTTP 400 unless a status is given.
func Register(code int, message string, status ...int) {
	mu.Lock()
	defer mu.Unlock()
	messages[code] = message
	if len(status) > 0 {
		statuses[code] = status[0]
	} else if _, ok := statuses[code]; !ok {
		statuses[code] = http.StatusBadRequest
	}
}

// ToHTTPStatus maps a business code to an HTTP status.
func ToHTTPStatus(code int) int {
	mu.RLock()
	defer mu.RUnlock()
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError classifies codec errors into business codes. Unknown errors are
// ServerErr.
func FromError(err error) int {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, token.ErrTypeMismatch), errors.Is(err, token.ErrTrailingData):
		return CursorMismatch
	case errors.Is(err, token.ErrMalformed), errors.Is(err, cursor.ErrInvalid):
		return InvalidCursor
	case errors.Is(err, token.ErrUnsupportedType), errors.Is(err, token.ErrArity):
		return UnsupportedType
	case errors.Is(err, typebuf.ErrInvalidArgument):
		return InvalidFrame
	case errors.Is(err, glob.ErrInvalidPattern):
		return InvalidPattern
	default:
		return ServerErr
	}
}

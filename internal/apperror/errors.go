// Package apperror defines the error kinds raised by handlers and the
// central Echo error handler that maps them to the JSON envelope
// { "error": ..., "fields": ... }.  Handlers return these errors instead
// of formatting HTTP responses themselves; everything unknown becomes an
// opaque 500 with a server-side log line.
package apperror

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ValidationError reports malformed, missing or conflicting input.  It
// maps to HTTP 400 and may carry per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation builds a ValidationError with optional field messages
// given as alternating key/value pairs.
func NewValidation(message string, fieldPairs ...string) *ValidationError {
	e := &ValidationError{Message: message}
	if len(fieldPairs) > 0 {
		e.Fields = make(map[string]string, len(fieldPairs)/2)
		for i := 0; i+1 < len(fieldPairs); i += 2 {
			e.Fields[fieldPairs[i]] = fieldPairs[i+1]
		}
	}
	return e
}

// AuthError reports a missing or insufficient identity.  Forbidden is
// false for 401 (not authenticated) and true for 403 (authenticated but
// not allowed).
type AuthError struct {
	Message   string
	Forbidden bool
}

func (e *AuthError) Error() string { return e.Message }

// NewAuth returns a 401 AuthError with a default message when none is given.
func NewAuth(message string) *AuthError {
	if message == "" {
		message = "Authentication required"
	}
	return &AuthError{Message: message}
}

// NewForbidden returns a 403 AuthError.
func NewForbidden(message string) *AuthError {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return &AuthError{Message: message, Forbidden: true}
}

// NotFoundError reports an absent referenced record.  Resource names the
// missing entity ("Reservation", "User").
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NewNotFound builds a NotFoundError for the named resource.
func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// envelope is the wire form every error is reduced to.
type envelope struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPErrorHandler is installed as echo.Echo.HTTPErrorHandler.  It
// translates the known error kinds to their status codes, passes
// echo.HTTPError through (404 route misses, 405s and the like), and
// collapses anything else to a 500 without leaking internal messages.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := envelope{Error: "Internal server error"}

	var ve *ValidationError
	var ae *AuthError
	var nfe *NotFoundError
	var he *echo.HTTPError

	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body = envelope{Error: ve.Message, Fields: ve.Fields}
	case errors.As(err, &ae):
		status = http.StatusUnauthorized
		if ae.Forbidden {
			status = http.StatusForbidden
		}
		body = envelope{Error: ae.Message}
	case errors.As(err, &nfe):
		status = http.StatusNotFound
		body = envelope{Error: nfe.Error()}
	case errors.As(err, &he):
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			body = envelope{Error: msg}
		} else {
			body = envelope{Error: http.StatusText(he.Code)}
		}
	default:
		log.Printf("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

// Package handler implements the HTTP endpoints: auth, availability
// queries, reservation CRUD and user management.  Handlers raise
// apperror kinds and never format error responses themselves; the
// central error handler maps them to the JSON envelope.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
)

// identity is the authenticated caller as extracted from the JWT claims
// the middleware stored in context.  Handlers receive it explicitly
// instead of reading ambient state.
type identity struct {
	ID   uint64
	Role string
}

// currentIdentity pulls the caller's user id and role from context.
// JWT numeric claims arrive as float64 after JSON decoding, so several
// representations are accepted.
func currentIdentity(c echo.Context) (identity, error) {
	var id identity
	switch t := c.Get("user_id").(type) {
	case uint64:
		id.ID = t
	case int:
		id.ID = uint64(t)
	case int64:
		id.ID = uint64(t)
	case float64:
		id.ID = uint64(t)
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return identity{}, apperror.NewAuth("")
		}
		id.ID = n
	default:
		return identity{}, apperror.NewAuth("")
	}
	role, ok := c.Get("role").(string)
	if !ok || role == "" {
		return identity{}, apperror.NewAuth("")
	}
	id.Role = role
	return id, nil
}

// contextWithTimeout bounds a database-touching handler step.
func contextWithTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}

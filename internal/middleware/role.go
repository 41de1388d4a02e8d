package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
)

// RequireRole returns a middleware enforcing that the authenticated
// user's role (stored in context by JWTAuth) is one of the given
// values.  Requests with a missing or disallowed role are rejected
// with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return apperror.NewForbidden("")
			}
			return next(c)
		}
	}
}

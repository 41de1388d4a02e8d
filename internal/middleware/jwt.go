// Package middleware provides reusable HTTP middleware: JWT
// authentication, role enforcement, Redis response caching and Redis
// token-bucket rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject and role claims into the
// request context under "user_id" and "role".  The secret must match
// the one used when issuing tokens.  Handlers behind this middleware
// read the caller's identity back out of the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperror.NewAuth("Missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Only HMAC signatures are accepted.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return apperror.NewAuth("Invalid token")
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return apperror.NewAuth("Invalid claims")
			}
			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			return next(c)
		}
	}
}

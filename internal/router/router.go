// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/handler"
	"github.com/bookable/reservation-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while the profile endpoint lives under /v1 behind JWT auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication; the handler accepts a
	// JSON body containing the refresh_token and invalidates it.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterAvailability registers the public slot-listing endpoint.  The
// cache middleware is applied per route so that authenticated traffic
// elsewhere is never served from cache.
func RegisterAvailability(e *echo.Echo, h *handler.AvailabilityHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/availability", h.GetAvailability, cache)
}

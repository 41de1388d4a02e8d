package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/handler"
	"github.com/bookable/reservation-api/internal/middleware"
)

// RegisterUsers registers the user-management endpoints under /v1/users.
// Listing is admin only; fetching and updating a single user allow the
// user themselves through, so those routes take the wider role set and
// the handlers check ownership.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/users", middleware.JWTAuth(jwtSecret))
	g.GET("", h.List, middleware.RequireRole("ADMIN"))
	g.GET("/:id", h.Get, middleware.RequireRole("ADMIN", "STAFF", "CUSTOMER"))
	g.PUT("/:id", h.Update, middleware.RequireRole("ADMIN", "STAFF", "CUSTOMER"))
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/handler"
	"github.com/bookable/reservation-api/internal/middleware"
)

// RegisterReservations registers the reservation CRUD endpoints under
// /v1.  All routes require a valid JWT; per-reservation authorization
// (owner, staff, admin) is enforced inside the handlers because the
// rules depend on the record being touched, not just the role.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/reservations",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF", "CUSTOMER"),
	)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

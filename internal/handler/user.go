package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
	"github.com/bookable/reservation-api/internal/model"
	"github.com/bookable/reservation-api/internal/repository"
)

// UserHandler implements the admin user-management endpoints and the
// self-profile views.
type UserHandler struct {
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
}

func NewUserHandler(users *repository.UserRepo, reservations *repository.ReservationRepo) *UserHandler {
	if users == nil || reservations == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Reservations: reservations}
}

// userJSON shapes a user row for responses, never exposing the hash.
func userJSON(u model.User) echo.Map {
	return echo.Map{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"phone":      u.Phone,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// List handles GET /v1/users (admin only; the route enforces the role).
// Supports ?search= against email and names, ?role= and pagination.
func (h *UserHandler) List(c echo.Context) error {
	page, limit, offset := parsePagination(c, 20)
	role := c.QueryParam("role")
	if role != "" && !model.ValidRole(role) {
		return apperror.NewValidation("Validation failed",
			"role", "Role must be one of: ADMIN, STAFF, CUSTOMER")
	}
	users, total, err := h.Users.List(c.Request().Context(), c.QueryParam("search"), role, limit, offset)
	if err != nil {
		return err
	}
	data := make([]echo.Map, 0, len(users))
	for _, u := range users {
		data = append(data, userJSON(u))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":       data,
		"pagination": paginate(page, limit, total),
	})
}

// Get handles GET /v1/users/:id.  Admins may view anyone, everyone else
// only themselves.  Admin and staff callers additionally receive the
// user's five most recent reservations.
func (h *UserHandler) Get(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := userID(c)
	if err != nil {
		return err
	}
	if who.Role != model.RoleAdmin && who.ID != id {
		return apperror.NewForbidden("You do not have permission to access this user profile")
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("User")
		}
		return err
	}

	data := userJSON(u)
	if who.Role == model.RoleAdmin || who.Role == model.RoleStaff {
		recent, err := h.Reservations.RecentByCustomer(ctx, id, 5)
		if err == nil {
			summaries := make([]echo.Map, 0, len(recent))
			for _, r := range recent {
				summaries = append(summaries, echo.Map{
					"id":         r.ID,
					"title":      r.Title,
					"start_time": r.StartTime,
					"end_time":   r.EndTime,
					"status":     r.Status,
				})
			}
			data["reservations"] = summaries
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": data})
}

type userUpdateReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
}

// Update handles PUT /v1/users/:id.  Users may edit their own name and
// phone; admins may additionally change anyone's role.  Empty names are
// rejected; an empty update is a no-op.
func (h *UserHandler) Update(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := userID(c)
	if err != nil {
		return err
	}
	if who.Role != model.RoleAdmin && who.ID != id {
		return apperror.NewForbidden("You do not have permission to update this user profile")
	}

	var body userUpdateReq
	if err := c.Bind(&body); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if body.FirstName != nil && *body.FirstName == "" {
		return apperror.NewValidation("Validation failed", "first_name", "First name cannot be empty")
	}
	if body.LastName != nil && *body.LastName == "" {
		return apperror.NewValidation("Validation failed", "last_name", "Last name cannot be empty")
	}

	upd := repository.UserUpdate{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
	}
	if body.Role != nil {
		if who.Role != model.RoleAdmin {
			return apperror.NewForbidden("Only administrators can change roles")
		}
		if !model.ValidRole(*body.Role) {
			return apperror.NewValidation("Validation failed",
				"role", "Role must be one of: ADMIN, STAFF, CUSTOMER")
		}
		upd.Role = body.Role
	}
	if upd.FirstName == nil && upd.LastName == nil && upd.Phone == nil && upd.Role == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes to update"})
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()
	u, err := h.Users.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("User")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":    userJSON(u),
		"message": "User updated successfully",
	})
}

func userID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NewValidation("Invalid user id")
	}
	return id, nil
}

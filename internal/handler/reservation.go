package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
	"github.com/bookable/reservation-api/internal/availability"
	"github.com/bookable/reservation-api/internal/model"
	"github.com/bookable/reservation-api/internal/queue"
	"github.com/bookable/reservation-api/internal/repository"
	"github.com/bookable/reservation-api/internal/service"
)

// ReservationHandler implements reservation CRUD.  Role scoping:
// customers act only on their own records, staff on records they
// created, admins are unrestricted.  The overlap check before each
// write is advisory; the storage layer remains the final arbiter for
// racing writes.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(reservations *repository.ReservationRepo) *ReservationHandler {
	if reservations == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

type reservationBody struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Status          *string `json:"status"`
	CustomerID      *uint64 `json:"customer_id"`
	SpecialRequests *string `json:"special_requests"`
	NumberOfPeople  *int    `json:"number_of_people"`
	AdditionalNotes *string `json:"additional_notes"`
}

func (b *reservationBody) hasDetails() bool {
	return b.SpecialRequests != nil || b.NumberOfPeople != nil || b.AdditionalNotes != nil
}

// List handles GET /v1/reservations with status/date filters and
// pagination.  Customers see their own reservations, staff see all (or
// only their own creations with ?onlyMine=true), admins see everything.
func (h *ReservationHandler) List(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}

	page, limit, offset := parsePagination(c, 10)
	f := repository.ListFilter{
		Status: c.QueryParam("status"),
		Limit:  limit,
		Offset: offset,
	}
	if s := c.QueryParam("startDate"); s != "" {
		t, ok := parseTimestamp(s)
		if !ok {
			return apperror.NewValidation("Invalid date format",
				"startDate", "Dates must be in a valid format (YYYY-MM-DD)")
		}
		f.StartDate = &t
	}
	if s := c.QueryParam("endDate"); s != "" {
		t, ok := parseTimestamp(s)
		if !ok {
			return apperror.NewValidation("Invalid date format",
				"endDate", "Dates must be in a valid format (YYYY-MM-DD)")
		}
		f.EndDate = &t
	}

	switch who.Role {
	case model.RoleCustomer:
		f.CustomerID = who.ID
	case model.RoleStaff:
		if c.QueryParam("onlyMine") == "true" {
			f.CreatedBy = who.ID
		}
	}

	items, total, err := h.Reservations.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":       items,
		"pagination": paginate(page, limit, total),
	})
}

// Create handles POST /v1/reservations.  Required fields are title,
// start_time, end_time and status.  The proposed interval must not
// overlap any existing non-cancelled reservation.  Staff and admins may
// book on another customer's behalf via customer_id; for customers the
// field is forced to their own id.
func (h *ReservationHandler) Create(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	missing := make([]string, 0, 4)
	if body.Title == nil || *body.Title == "" {
		missing = append(missing, "title", "title is required")
	}
	if body.StartTime == nil || *body.StartTime == "" {
		missing = append(missing, "start_time", "start_time is required")
	}
	if body.EndTime == nil || *body.EndTime == "" {
		missing = append(missing, "end_time", "end_time is required")
	}
	if body.Status == nil || *body.Status == "" {
		missing = append(missing, "status", "status is required")
	}
	if len(missing) > 0 {
		return apperror.NewValidation("Validation failed", missing...)
	}
	if !model.ValidStatus(*body.Status) {
		return apperror.NewValidation("Validation failed",
			"status", "status must be one of: pending, confirmed, cancelled, completed")
	}

	startTime, endTime, err := parseInterval(*body.StartTime, *body.EndTime)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.guardOverlap(ctx, startTime, endTime, 0); err != nil {
		return err
	}

	customerID := who.ID
	if body.CustomerID != nil && (who.Role == model.RoleAdmin || who.Role == model.RoleStaff) {
		customerID = *body.CustomerID
	}
	res := model.Reservation{
		Title:       *body.Title,
		Description: body.Description,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      *body.Status,
		CustomerID:  customerID,
		CreatedBy:   who.ID,
	}
	if err := h.Reservations.Create(ctx, &res); err != nil {
		return err
	}

	// Secondary write: a failed details insert is logged and swallowed,
	// the reservation itself stands.
	if body.hasDetails() {
		det := model.ReservationDetails{
			ReservationID:   res.ID,
			SpecialRequests: body.SpecialRequests,
			NumberOfPeople:  body.NumberOfPeople,
			AdditionalNotes: body.AdditionalNotes,
		}
		if err := h.Reservations.UpsertDetails(ctx, det); err != nil {
			log.Printf("reservation %d: failed to insert details: %v", res.ID, err)
		}
	}

	publishEvent(ctx, queue.ActionCreated, res)
	return c.JSON(http.StatusCreated, echo.Map{"data": reservationJSON(res)})
}

// Get handles GET /v1/reservations/:id, returning the record with its
// joined customer, creator and optional details.
func (h *ReservationHandler) Get(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := reservationID(c)
	if err != nil {
		return err
	}
	item, err := h.Reservations.GetItem(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("Reservation")
		}
		return err
	}
	if who.Role == model.RoleCustomer && item.CustomerID != who.ID {
		return apperror.NewForbidden("You do not have permission to access this reservation")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": item})
}

// Update handles PUT /v1/reservations/:id.  All fields are optional;
// when both times are supplied the new interval is validated and checked
// for overlap excluding the record's own prior interval.  Reassigning
// customer_id is admin-only and silently ignored for other roles.
func (h *ReservationHandler) Update(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := reservationID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	existing, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("Reservation")
		}
		return err
	}
	if err := h.authorize(who, existing, "update"); err != nil {
		return err
	}

	var body reservationBody
	if err := c.Bind(&body); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	upd := repository.ReservationUpdate{
		Title:       body.Title,
		Description: body.Description,
	}
	if body.StartTime != nil && body.EndTime != nil {
		startTime, endTime, err := parseInterval(*body.StartTime, *body.EndTime)
		if err != nil {
			return err
		}
		if err := h.guardOverlap(ctx, startTime, endTime, id); err != nil {
			return err
		}
		upd.StartTime = &startTime
		upd.EndTime = &endTime
	}
	if body.Status != nil {
		if !model.ValidStatus(*body.Status) {
			return apperror.NewValidation("Validation failed",
				"status", "status must be one of: pending, confirmed, cancelled, completed")
		}
		upd.Status = body.Status
	}
	if body.CustomerID != nil && who.Role == model.RoleAdmin {
		upd.CustomerID = body.CustomerID
	}

	updated, err := h.Reservations.Update(ctx, id, upd)
	if err != nil {
		return err
	}

	if body.hasDetails() {
		det := model.ReservationDetails{
			ReservationID:   id,
			SpecialRequests: body.SpecialRequests,
			NumberOfPeople:  body.NumberOfPeople,
			AdditionalNotes: body.AdditionalNotes,
		}
		if err := h.Reservations.UpsertDetails(ctx, det); err != nil {
			log.Printf("reservation %d: failed to upsert details: %v", id, err)
		}
	}

	if updated.Status == model.StatusCancelled && existing.Status != model.StatusCancelled {
		publishEvent(ctx, queue.ActionCancelled, updated)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": reservationJSON(updated)})
}

// Delete handles DELETE /v1/reservations/:id under the same permission
// matrix as Update.
func (h *ReservationHandler) Delete(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := reservationID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	existing, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("Reservation")
		}
		return err
	}
	if err := h.authorize(who, existing, "delete"); err != nil {
		return err
	}
	if err := h.Reservations.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation deleted successfully"})
}

// guardOverlap runs the advisory overlap check: fetch the non-cancelled
// candidates touching the window, then let the shared predicate decide.
func (h *ReservationHandler) guardOverlap(ctx context.Context, start, end time.Time, excludeID uint64) error {
	existing, err := h.Reservations.ConflictCandidates(ctx, start, end, excludeID)
	if err != nil {
		return err
	}
	if hit := availability.FindConflict(start, end, excludeID, existing); hit != nil {
		return apperror.NewValidation("Overlapping reservation",
			"time", "This time slot is already booked")
	}
	return nil
}

// authorize applies the role matrix to an existing record.
func (h *ReservationHandler) authorize(who identity, res model.Reservation, verb string) error {
	switch who.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleStaff:
		if res.CreatedBy != who.ID {
			return apperror.NewForbidden("Staff can only " + verb + " reservations they created")
		}
		return nil
	default:
		if res.CustomerID != who.ID {
			return apperror.NewForbidden("You do not have permission to " + verb + " this reservation")
		}
		return nil
	}
}

func reservationID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NewValidation("Invalid reservation id")
	}
	return id, nil
}

// parseInterval parses and validates a start/end pair.
func parseInterval(startStr, endStr string) (time.Time, time.Time, error) {
	startTime, ok := parseTimestamp(startStr)
	if !ok {
		return time.Time{}, time.Time{}, apperror.NewValidation("Invalid date format",
			"time", "Start time and end time must be valid dates")
	}
	endTime, ok := parseTimestamp(endStr)
	if !ok {
		return time.Time{}, time.Time{}, apperror.NewValidation("Invalid date format",
			"time", "Start time and end time must be valid dates")
	}
	if !startTime.Before(endTime) {
		return time.Time{}, time.Time{}, apperror.NewValidation("Invalid time range",
			"time", "End time must be after start time")
	}
	return startTime, endTime, nil
}

// reservationJSON shapes a bare reservation row for responses.
func reservationJSON(r model.Reservation) echo.Map {
	return echo.Map{
		"id":          r.ID,
		"title":       r.Title,
		"description": r.Description,
		"start_time":  r.StartTime,
		"end_time":    r.EndTime,
		"status":      r.Status,
		"customer_id": r.CustomerID,
		"created_by":  r.CreatedBy,
		"created_at":  r.CreatedAt,
		"updated_at":  r.UpdatedAt,
	}
}

// publishEvent emits a lifecycle event to the broker.  Publishing is
// best-effort: failures are logged by the publisher and never fail the
// request.
func publishEvent(ctx context.Context, action string, r model.Reservation) {
	_ = service.PublishReservationEvent(ctx, queue.ReservationEvent{
		Action:        action,
		ReservationID: r.ID,
		Title:         r.Title,
		CustomerID:    r.CustomerID,
		CreatedBy:     r.CreatedBy,
		StartTime:     r.StartTime.UTC().Format(time.RFC3339),
		EndTime:       r.EndTime.UTC().Format(time.RFC3339),
		Status:        r.Status,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/availability"
	"github.com/bookable/reservation-api/internal/config"
	"github.com/bookable/reservation-api/internal/repository"
)

// AvailabilityHandler serves the free-slot query.  Every request
// re-fetches rules and reservations for its own window; there is no
// in-process cache of either.
type AvailabilityHandler struct {
	Cfg          config.Config
	Rules        *repository.AvailabilityRepo
	Reservations *repository.ReservationRepo
}

func NewAvailabilityHandler(cfg config.Config, rules *repository.AvailabilityRepo, reservations *repository.ReservationRepo) *AvailabilityHandler {
	if rules == nil || reservations == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Cfg: cfg, Rules: rules, Reservations: reservations}
}

// availabilityMeta accompanies the slot list.  Note is present only when
// the default schedule replaced unreadable configuration, so clients can
// warn that the data is synthetic.
type availabilityMeta struct {
	Total     int    `json:"total"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Note      string `json:"note,omitempty"`
}

type availabilityResp struct {
	Data []availability.Slot `json:"data"`
	Meta availabilityMeta    `json:"meta"`
}

// GetAvailability handles GET /v1/availability.  It accepts either a
// single ?date= or a ?startDate=&endDate= pair, walks the requested days
// against the weekly rules and the non-cancelled reservations in range,
// and returns the free 30-minute slots.  When the rules cannot be read
// (unprovisioned table, unreachable storage) it falls back to the
// configured default schedule and flags the response with a note.
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	rangeStart, rangeEnd, err := parseDateRange(
		c.QueryParam("date"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	rules, rulesErr := h.Rules.EnabledRules(ctx, weekdaysIn(rangeStart, rangeEnd))
	if rulesErr != nil {
		log.Printf("availability: falling back to default schedule: %v", rulesErr)
		slots := availability.DefaultSlots(rangeStart, rangeEnd, time.Now().UTC(),
			h.Cfg.DefaultOpenHour, h.Cfg.DefaultCloseHour)
		return c.JSON(http.StatusOK, availabilityResp{
			Data: slots,
			Meta: availabilityMeta{
				Total:     len(slots),
				StartDate: rangeStart.Format(time.RFC3339),
				EndDate:   rangeEnd.Format(time.RFC3339),
				Note:      "Using default availability due to database setup issues",
			},
		})
	}

	busy, err := h.Reservations.IntervalsInRange(ctx, rangeStart, rangeEnd)
	if err != nil {
		return err
	}

	slots := availability.GenerateSlots(rangeStart, rangeEnd, rules, busy)
	return c.JSON(http.StatusOK, availabilityResp{
		Data: slots,
		Meta: availabilityMeta{
			Total:     len(slots),
			StartDate: rangeStart.Format(time.RFC3339),
			EndDate:   rangeEnd.Format(time.RFC3339),
		},
	})
}

// weekdaysIn collects the distinct weekdays covered by the range so the
// rules query fetches only the rows it can use.
func weekdaysIn(rangeStart, rangeEnd time.Time) []int {
	seen := make(map[int]bool, 7)
	days := make([]int, 0, 7)
	for d := rangeStart; !d.After(rangeEnd) && len(days) < 7; d = d.AddDate(0, 0, 1) {
		wd := int(d.Weekday())
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	return days
}

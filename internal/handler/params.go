package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
)

// timestampLayouts are tried in order when parsing date parameters and
// reservation times.  Bare dates normalize to midnight UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDateRange resolves the availability query parameters into an
// inclusive [start, end] window.  A single date expands to the full
// 00:00:00.000-23:59:59.999 span of that day; otherwise both startDate
// and endDate are required.  Missing, unparseable or inverted inputs
// yield a ValidationError naming the offending field; no default range
// is ever substituted.
func parseDateRange(date, startDate, endDate string) (time.Time, time.Time, error) {
	if date == "" && (startDate == "" || endDate == "") {
		return time.Time{}, time.Time{}, apperror.NewValidation("Date parameters required",
			"date", "Either date or startDate and endDate must be provided")
	}

	if date != "" {
		d, ok := parseTimestamp(date)
		if !ok {
			return time.Time{}, time.Time{}, apperror.NewValidation("Invalid date format",
				"date", "Dates must be in a valid format (YYYY-MM-DD)")
		}
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		end := start.Add(24*time.Hour - time.Millisecond)
		return start, end, nil
	}

	start, ok := parseTimestamp(startDate)
	if !ok {
		return time.Time{}, time.Time{}, apperror.NewValidation("Invalid date format",
			"startDate", "Dates must be in a valid format (YYYY-MM-DD)")
	}
	end, ok := parseTimestamp(endDate)
	if !ok {
		return time.Time{}, time.Time{}, apperror.NewValidation("Invalid date format",
			"endDate", "Dates must be in a valid format (YYYY-MM-DD)")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperror.NewValidation("Invalid date range",
			"date", "Start date must be before or equal to end date")
	}
	return start, end, nil
}

// parsePagination reads page/limit query parameters with sane bounds.
func parsePagination(c echo.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

// pagination is the envelope attached to listing responses.
type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func paginate(page, limit, total int) pagination {
	return pagination{Page: page, Limit: limit, Total: total, TotalPages: (total + limit - 1) / limit}
}

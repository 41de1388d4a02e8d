package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
)

func TestParseDateRangeSingleDate(t *testing.T) {
	start, end, err := parseDateRange("2026-03-02", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	wantEnd := wantStart.Add(24*time.Hour - time.Millisecond)
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestParseDateRangeStartEnd(t *testing.T) {
	start, end, err := parseDateRange("", "2026-03-02", "2026-03-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 2 || end.Day() != 6 {
		t.Errorf("got %v..%v", start, end)
	}
	if !start.Before(end) {
		t.Errorf("start %v not before end %v", start, end)
	}
}

func TestParseDateRangeMissingParams(t *testing.T) {
	cases := []struct{ date, startDate, endDate string }{
		{"", "", ""},
		{"", "2026-03-02", ""},
		{"", "", "2026-03-06"},
	}
	for _, tc := range cases {
		_, _, err := parseDateRange(tc.date, tc.startDate, tc.endDate)
		var ve *apperror.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("parseDateRange(%q,%q,%q) = %v, want ValidationError", tc.date, tc.startDate, tc.endDate, err)
		}
		if ve.Message != "Date parameters required" {
			t.Errorf("message = %q", ve.Message)
		}
		if _, ok := ve.Fields["date"]; !ok {
			t.Errorf("expected a field message for date, got %v", ve.Fields)
		}
	}
}

func TestParseDateRangeInvalidFormat(t *testing.T) {
	cases := []struct {
		date, startDate, endDate string
		field                    string
	}{
		{"not-a-date", "", "", "date"},
		{"", "nope", "2026-03-06", "startDate"},
		{"", "2026-03-02", "03/06/2026", "endDate"},
	}
	for _, tc := range cases {
		_, _, err := parseDateRange(tc.date, tc.startDate, tc.endDate)
		var ve *apperror.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if ve.Message != "Invalid date format" {
			t.Errorf("message = %q", ve.Message)
		}
		if _, ok := ve.Fields[tc.field]; !ok {
			t.Errorf("expected field %q flagged, got %v", tc.field, ve.Fields)
		}
	}
}

func TestParseDateRangeInverted(t *testing.T) {
	_, _, err := parseDateRange("", "2026-03-06", "2026-03-02")
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Message != "Invalid date range" {
		t.Errorf("message = %q", ve.Message)
	}
}

func TestParseDateRangeEqualBoundsAllowed(t *testing.T) {
	start, end, err := parseDateRange("", "2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(end) {
		t.Errorf("got %v..%v, want equal bounds", start, end)
	}
}

func TestParseTimestampAcceptsRFC3339(t *testing.T) {
	got, ok := parseTimestamp("2026-03-02T14:30:00+02:00")
	if !ok {
		t.Fatal("parse failed")
	}
	want := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("result not normalized to UTC: %v", got.Location())
	}
}

func testContext(t *testing.T, query string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query               string
		page, limit, offset int
	}{
		{"", 1, 10, 0},
		{"page=3&limit=25", 3, 25, 50},
		{"page=0&limit=0", 1, 10, 0},
		{"page=-5&limit=500", 1, 10, 0},
		{"limit=100", 1, 100, 0},
	}
	for _, tc := range cases {
		page, limit, offset := parsePagination(testContext(t, tc.query), 10)
		if page != tc.page || limit != tc.limit || offset != tc.offset {
			t.Errorf("parsePagination(%q) = (%d,%d,%d), want (%d,%d,%d)",
				tc.query, page, limit, offset, tc.page, tc.limit, tc.offset)
		}
	}
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		total, limit, pages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
	}
	for _, tc := range cases {
		p := paginate(1, tc.limit, tc.total)
		if p.TotalPages != tc.pages {
			t.Errorf("paginate(total=%d, limit=%d).TotalPages = %d, want %d",
				tc.total, tc.limit, p.TotalPages, tc.pages)
		}
	}
}

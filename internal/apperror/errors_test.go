package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func run(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	HTTPErrorHandler(err, c)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec, body
}

func TestValidationErrorMapsTo400WithFields(t *testing.T) {
	rec, body := run(t, NewValidation("Validation failed", "title", "title is required"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "Validation failed" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
	fields, ok := body["fields"].(map[string]any)
	if !ok || fields["title"] != "title is required" {
		t.Fatalf("expected field message, got %v", body["fields"])
	}
}

func TestAuthErrorStatusSplit(t *testing.T) {
	rec, _ := run(t, NewAuth(""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec, body := run(t, NewForbidden("Staff can only update reservations they created"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body["error"] != "Staff can only update reservations they created" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
}

func TestNotFoundErrorNamesResource(t *testing.T) {
	rec, body := run(t, NewNotFound("Reservation"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body["error"] != "Reservation not found" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
}

func TestUnknownErrorIsOpaque500(t *testing.T) {
	rec, body := run(t, errors.New("dsn parse failed: secret"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["error"] != "Internal server error" {
		t.Fatalf("internal message must not leak, got %v", body["error"])
	}
}

func TestEchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := run(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if body["error"] != "Method Not Allowed" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/musicplayer/platform/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		code   int
		detail string
	}{
		{domain.ErrAuthenticationFailed, http.StatusUnauthorized, "Invalid credentials"},
		{fmt.Errorf("login: %w: dial tcp", domain.ErrDependencyUnavailable), http.StatusInternalServerError, "Authentication service temporarily unavailable"},
		{domain.ErrMissingCredential, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{fmt.Errorf("%w: expired", domain.ErrInvalidCredential), http.StatusUnauthorized, "Invalid token"},
		{fmt.Errorf("%w: role", domain.ErrInsufficientRole), http.StatusForbidden, "Insufficient permissions"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many login attempts"},
		{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{domain.ErrUserExists, http.StatusConflict, "User already exists"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
		{fmt.Errorf("login: %w: bad digest", domain.ErrInternal), http.StatusInternalServerError, "Internal server error"},
		{errors.New("something secret"), http.StatusInternalServerError, "Internal server error"},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handle(tc.err, e.NewContext(req, rec))

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: invalid json: %v", tc.err, err)
		}
		if body["detail"] != tc.detail {
			t.Fatalf("%v: expected detail %q, got %q", tc.err, tc.detail, body["detail"])
		}
		if len(body) != 1 {
			t.Fatalf("%v: unexpected fields in body: %v", tc.err, body)
		}
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}

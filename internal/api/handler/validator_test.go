package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestValidator_NamesFieldsByJSONKey(t *testing.T) {
	err := NewValidator().Validate(&registerRequest{Username: "alice", Email: "not-an-email", Password: "password123"})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "email must be a valid email") || !strings.Contains(msg, "first_name is required") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestValidator_OneOf(t *testing.T) {
	err := NewValidator().Validate(&setRoleRequest{Role: "root"})

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if msg, _ := he.Message.(string); msg != "role must be one of: admin, user" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&loginRequest{Email: "john.doe@example.com", Password: "password123"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/musicplayer/platform/internal/core/domain"
	"github.com/musicplayer/platform/internal/infrastructure/token"
)

var gateNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGate(t *testing.T) (*Gate, *token.JWTCodec) {
	t.Helper()
	codec, err := token.NewJWTCodec("secret", "HS256", token.WithClock(func() time.Time { return gateNow }))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return NewGate(codec, zerolog.Nop()), codec
}

func issue(t *testing.T, codec *token.JWTCodec, subject, role string, exp time.Time) string {
	t.Helper()
	signed, err := codec.Encode(domain.Claims{
		Subject:   subject,
		Role:      role,
		IssuedAt:  exp.Add(-time.Hour),
		ExpiresAt: exp,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return signed
}

// run drives mw with the given Authorization header and reports whether the
// wrapped handler was reached.
func run(t *testing.T, mw echo.MiddlewareFunc, header string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestGate_ValidToken(t *testing.T) {
	gate, codec := newTestGate(t)
	signed := issue(t, codec, "1", domain.RoleAdmin, gateNow.Add(time.Hour))

	c, called, err := run(t, gate.Authenticate(), "Bearer "+signed)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}

	p, ok := PrincipalFrom(c)
	if !ok || p.Subject != "1" || p.Role != domain.RoleAdmin {
		t.Fatalf("unexpected principal on context: %+v (%v)", p, ok)
	}
	ctxP, ok := PrincipalFromContext(c.Request().Context())
	if !ok || ctxP != p {
		t.Fatalf("principal missing from request context")
	}
}

func TestGate_SchemeIsCaseInsensitive(t *testing.T) {
	gate, codec := newTestGate(t)
	signed := issue(t, codec, "1", domain.RoleUser, gateNow.Add(time.Hour))

	if _, called, err := run(t, gate.Authenticate(), "bearer "+signed); err != nil || !called {
		t.Fatalf("expected lower-case scheme to pass, got %v", err)
	}
}

func TestGate_DefaultsMissingRole(t *testing.T) {
	gate, codec := newTestGate(t)
	signed := issue(t, codec, "7", "", gateNow.Add(time.Hour))

	c, _, err := run(t, gate.Require(domain.RoleUser), "Bearer "+signed)
	if err != nil {
		t.Fatalf("expected default role to satisfy user requirement, got %v", err)
	}
	if p, _ := PrincipalFrom(c); p.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %q", p.Role)
	}
}

func TestGate_MissingOrMalformedHeader(t *testing.T) {
	gate, codec := newTestGate(t)
	signed := issue(t, codec, "1", domain.RoleUser, gateNow.Add(time.Hour))

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz", signed, "Token " + signed, "Bearer a b"} {
		_, called, err := run(t, gate.Authenticate(), header)
		if !errors.Is(err, domain.ErrMissingCredential) {
			t.Fatalf("%q: expected ErrMissingCredential, got %v", header, err)
		}
		if called {
			t.Fatalf("%q: next must not be called", header)
		}
	}
}

func TestGate_MissingHeaderOnAdminRoute(t *testing.T) {
	gate, _ := newTestGate(t)

	if _, _, err := run(t, gate.Require(domain.RoleAdmin), ""); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential before role check, got %v", err)
	}
}

func TestGate_InvalidAndExpiredLookTheSame(t *testing.T) {
	gate, codec := newTestGate(t)
	expired := issue(t, codec, "1", domain.RoleUser, gateNow.Add(-time.Minute))

	other, err := token.NewJWTCodec("other-secret", "HS256")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	forged := issue(t, other, "1", domain.RoleAdmin, gateNow.Add(time.Hour))

	for name, header := range map[string]string{
		"expired":   "Bearer " + expired,
		"forged":    "Bearer " + forged,
		"garbage":   "Bearer not-a-token",
		"truncated": "Bearer " + forged[:len(forged)-4],
	} {
		_, called, err := run(t, gate.Authenticate(), header)
		if !errors.Is(err, domain.ErrInvalidCredential) {
			t.Fatalf("%s: expected ErrInvalidCredential, got %v", name, err)
		}
		if called {
			t.Fatalf("%s: next must not be called", name)
		}
	}
}

func TestGate_ExpiryBoundary(t *testing.T) {
	gate, codec := newTestGate(t)
	atNow := issue(t, codec, "1", domain.RoleUser, gateNow)

	if _, _, err := run(t, gate.Authenticate(), "Bearer "+atNow); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("token expiring exactly now must be rejected, got %v", err)
	}
}

func TestGate_Evaluate(t *testing.T) {
	gate, codec := newTestGate(t)
	signed := issue(t, codec, "42", domain.RoleUser, gateNow.Add(time.Hour))

	p, err := gate.Evaluate("Bearer "+signed, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if p.Subject != "42" || p.Role != domain.RoleUser {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

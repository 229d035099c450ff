package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/musicplayer/platform/internal/api/metrics"
	"github.com/musicplayer/platform/internal/core/domain"
	"github.com/musicplayer/platform/internal/core/ports"
)

// principalKey is the echo.Context key the gate stores the caller under.
const principalKey = "principal"

type principalCtxKey struct{}

// Gate is the single authorization check in front of protected routes. It turns
// a bearer token into a domain.Principal and optionally enforces a role.
type Gate struct {
	tokens ports.TokenCodec
	log    zerolog.Logger
}

func NewGate(tokens ports.TokenCodec, log zerolog.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// Evaluate authorizes an Authorization header value. An empty requiredRole
// admits any authenticated principal.
//
// Errors wrap domain.ErrMissingCredential, domain.ErrInvalidCredential or
// domain.ErrInsufficientRole. Expired and otherwise invalid tokens both wrap
// ErrInvalidCredential so callers cannot tell them apart.
func (g *Gate) Evaluate(header, requiredRole string) (domain.Principal, error) {
	raw, ok := bearerToken(header)
	if !ok {
		g.reject("missing_credential")
		return domain.Principal{}, domain.ErrMissingCredential
	}

	claims, err := g.tokens.Decode(raw)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, domain.ErrExpiredToken) {
			reason = "expired_token"
		}
		g.reject(reason)
		g.log.Debug().Err(err).Str("reason", reason).Msg("token rejected")
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}

	principal := domain.PrincipalFromClaims(claims)
	if err := authorize(principal, requiredRole); err != nil {
		g.reject("insufficient_role")
		g.log.Debug().Str("subject", principal.Subject).Str("role", principal.Role).Str("required", requiredRole).Msg("role rejected")
		return domain.Principal{}, err
	}
	return principal, nil
}

// Authenticate admits any caller holding a valid token.
func (g *Gate) Authenticate() echo.MiddlewareFunc {
	return g.Require("")
}

// Require admits callers holding a valid token with the given role.
func (g *Gate) Require(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := g.Evaluate(c.Request().Header.Get(echo.HeaderAuthorization), role)
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			req := c.Request()
			c.SetRequest(req.WithContext(WithPrincipal(req.Context(), principal)))

			return next(c)
		}
	}
}

func (g *Gate) reject(reason string) {
	metrics.GateRejectionsTotal.WithLabelValues(reason).Inc()
}

// PrincipalFrom returns the principal attached by the gate, if any.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(domain.Principal)
	return p, ok
}

// bearerToken extracts the token from "Bearer <token>". The scheme is matched
// case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/musicplayer/platform/internal/api/metrics"
	"github.com/musicplayer/platform/internal/core/domain"
	"github.com/musicplayer/platform/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthDependencies bundles the collaborators of AuthService. Throttle, Audit
// and Decoy are optional.
//
// Decoy is a digest Verifier accepts. It is checked on the unknown-email path
// so that rejection costs the same whether or not the account exists.
type AuthDependencies struct {
	Users    ports.UserLookup
	Verifier ports.CredentialVerifier
	Tokens   ports.TokenCodec
	Throttle LoginThrottle
	Audit    ports.AuditRecorder
	Decoy    string
}

// AuthService implements login: lookup, verify, issue.
type AuthService struct {
	users    ports.UserLookup
	verifier ports.CredentialVerifier
	tokens   ports.TokenCodec
	throttle LoginThrottle
	audit    ports.AuditRecorder
	decoy    string
	tokenTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithClock overrides the time source used for issued-at and expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewAuthService(deps AuthDependencies, tokenTTL time.Duration, log zerolog.Logger, opts ...AuthOption) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	s := &AuthService{
		users:    deps.Users,
		verifier: deps.Verifier,
		tokens:   deps.Tokens,
		throttle: deps.Throttle,
		audit:    deps.Audit,
		decoy:    deps.Decoy,
		tokenTTL: tokenTTL,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates email/password and issues an access token.
//
// An unknown email and a wrong password both yield exactly
// domain.ErrAuthenticationFailed. Directory outages yield an error wrapping
// domain.ErrDependencyUnavailable; anything else that goes wrong wraps
// domain.ErrInternal. Nothing is retried.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, s.reject(ctx, email, "", "empty credentials")
	}

	if !s.allowed(ctx, email) {
		s.finish(domain.LoginEvent{Email: email, Outcome: domain.LoginThrottled})
		s.log.Warn().Str("email", email).Msg("login throttled")
		return nil, domain.ErrTooManyAttempts
	}

	// 1. Lookup.
	rec, err := s.users.ByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.verifyDecoy(password)
		return nil, s.reject(ctx, email, "", "unknown email")
	case errors.Is(err, domain.ErrDependencyUnavailable):
		return nil, s.fail(email, "", err, domain.ErrDependencyUnavailable)
	case err != nil:
		return nil, s.fail(email, "", err, domain.ErrInternal)
	}

	// 2. Verify.
	ok, err := s.verifier.Verify(password, rec.PasswordDigest)
	if err != nil {
		return nil, s.fail(email, rec.PrincipalID, err, domain.ErrInternal)
	}
	if !ok {
		return nil, s.reject(ctx, email, rec.PrincipalID, "password mismatch")
	}

	// 3. Issue.
	role := rec.Role
	if role == "" {
		role = domain.DefaultRole
	}
	issuedAt := s.now().UTC().Truncate(time.Second)
	claims := domain.Claims{
		Subject:   rec.PrincipalID,
		Role:      role,
		Email:     email,
		TokenID:   uuid.NewString(),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.tokenTTL),
	}
	token, err := s.tokens.Encode(claims)
	if err != nil {
		return nil, s.fail(email, rec.PrincipalID, err, domain.ErrInternal)
	}

	// 4. Done.
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}
	s.finish(domain.LoginEvent{Email: email, PrincipalID: rec.PrincipalID, Outcome: domain.LoginSucceeded})
	s.log.Info().Str("email", email).Str("principal_id", rec.PrincipalID).Str("role", role).Msg("login succeeded")

	return &ports.LoginResult{
		Token:       token,
		PrincipalID: rec.PrincipalID,
		Role:        role,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// verifyDecoy burns one verification against the decoy digest. The result is
// irrelevant.
func (s *AuthService) verifyDecoy(password string) {
	if s.decoy == "" {
		return
	}
	if _, err := s.verifier.Verify(password, s.decoy); err != nil {
		s.log.Warn().Err(err).Msg("decoy digest rejected by verifier")
	}
}

// allowed consults the throttle. Backend errors fail open.
func (s *AuthService) allowed(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, allowing attempt")
		return true
	}
	return ok
}

// reject ends the attempt as bad credentials. The returned error never depends on
// which check failed.
func (s *AuthService) reject(ctx context.Context, email, principalID, reason string) error {
	if s.throttle != nil && email != "" {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
		}
	}
	s.finish(domain.LoginEvent{Email: email, PrincipalID: principalID, Outcome: domain.LoginRejected, Reason: reason})
	s.log.Warn().Str("email", email).Str("reason", reason).Msg("login rejected")
	return domain.ErrAuthenticationFailed
}

// fail ends the attempt as a server-side failure of the given kind. The cause is
// logged and flattened so only kind is matchable by callers.
func (s *AuthService) fail(email, principalID string, cause, kind error) error {
	s.finish(domain.LoginEvent{Email: email, PrincipalID: principalID, Outcome: domain.LoginFailed, Reason: kind.Error()})
	s.log.Error().Err(cause).Str("email", email).Msg("login failed")
	return fmt.Errorf("login: %w: %v", kind, cause)
}

func (s *AuthService) finish(event domain.LoginEvent) {
	metrics.LoginAttemptsTotal.WithLabelValues(string(event.Outcome)).Inc()
	if s.audit == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	s.audit.Record(event)
}

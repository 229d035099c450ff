package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/musicplayer/platform/internal/core/domain"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "HS256"

// jwtClaims is the wire payload: sub, iat, exp, jti plus the custom claims below.
type jwtClaims struct {
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with a shared HMAC secret.
type JWTCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

// Option customises a JWTCodec.
type Option func(*JWTCodec)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *JWTCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewJWTCodec builds a codec for the named HMAC algorithm (HS256, HS384, HS512).
func NewJWTCodec(secret, algorithm string, opts ...Option) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt codec: empty secret")
	}
	method, err := HMACMethod(algorithm)
	if err != nil {
		return nil, err
	}

	c := &JWTCodec{secret: []byte(secret), method: method, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HMACMethod resolves an algorithm name to an HMAC signing method.
func HMACMethod(algorithm string) (*jwt.SigningMethodHMAC, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt codec: unsupported algorithm %q", algorithm)
	}
	return method, nil
}

// Algorithm returns the configured algorithm name.
func (c *JWTCodec) Algorithm() string {
	return c.method.Alg()
}

// Encode signs claims. Identical claims always produce identical tokens.
func (c *JWTCodec) Encode(claims domain.Claims) (string, error) {
	if err := claims.Validate(); err != nil {
		return "", err
	}

	payload := jwtClaims{
		Role:  claims.Role,
		Name:  claims.DisplayName,
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        claims.TokenID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	if !claims.IssuedAt.IsZero() {
		payload.IssuedAt = jwt.NewNumericDate(claims.IssuedAt)
	}

	signed, err := jwt.NewWithClaims(c.method, payload).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMalformedClaims, err)
	}
	return signed, nil
}

// Decode verifies the signature, the algorithm and the expiry of a token.
func (c *JWTCodec) Decode(tokenString string) (domain.Claims, error) {
	var payload jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &payload, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrExpiredToken, err)
		}
		return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	if payload.Subject == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	// The library tolerates now == exp; the token is already dead at that instant.
	if !c.now().Before(payload.ExpiresAt.Time) {
		return domain.Claims{}, domain.ErrExpiredToken
	}

	claims := domain.Claims{
		Subject:     payload.Subject,
		Role:        payload.Role,
		DisplayName: payload.Name,
		Email:       payload.Email,
		TokenID:     payload.ID,
		ExpiresAt:   payload.ExpiresAt.Time.UTC(),
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time.UTC()
	}
	return claims, nil
}

package ports

import "github.com/musicplayer/platform/internal/core/domain"

// TokenCodec signs and verifies access tokens. Implementations hold the secret and
// algorithm and must be safe for concurrent use.
type TokenCodec interface {
	// Encode fails only with domain.ErrMalformedClaims.
	Encode(claims domain.Claims) (string, error)
	// Decode fails with domain.ErrInvalidToken or domain.ErrExpiredToken.
	Decode(token string) (domain.Claims, error)
}

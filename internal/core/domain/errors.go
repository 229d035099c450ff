package domain

import "errors"

// Login.
var (
	ErrAuthenticationFailed  = errors.New("invalid credentials")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrTooManyAttempts       = errors.New("too many login attempts")
)

// Tokens and the request gate.
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token expired")
	ErrMissingCredential = errors.New("missing or invalid authorization header")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInsufficientRole  = errors.New("insufficient role")
)

// Internal faults. Never surfaced verbatim to clients.
var (
	ErrInternal        = errors.New("internal error")
	ErrMalformedClaims = errors.New("malformed claims")
	ErrMalformedDigest = errors.New("malformed password digest")
	ErrMalformedRecord = errors.New("malformed credential record")
)

// User directory.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidInput = errors.New("invalid input")
)

package domain

import "time"

// Claims is the signed payload of an access token.
type Claims struct {
	Subject     string
	Role        string
	DisplayName string
	Email       string
	TokenID     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Validate checks the invariants every issued token must satisfy.
func (c Claims) Validate() error {
	if c.Subject == "" {
		return ErrMalformedClaims
	}
	if c.ExpiresAt.IsZero() {
		return ErrMalformedClaims
	}
	if !c.IssuedAt.IsZero() && !c.ExpiresAt.After(c.IssuedAt) {
		return ErrMalformedClaims
	}
	return nil
}

// Principal is the authenticated caller attached to a request by the gate.
type Principal struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// PrincipalFromClaims builds the request principal, defaulting an empty role.
func PrincipalFromClaims(c Claims) Principal {
	role := c.Role
	if role == "" {
		role = DefaultRole
	}
	return Principal{Subject: c.Subject, Role: role}
}

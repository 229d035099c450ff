package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DefaultRole is assigned when a credential record or claim carries no role.
const DefaultRole = RoleUser

// User models a registered account in the user directory.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CredentialRecord is what login reads from the user directory. It is never persisted
// by the auth service.
type CredentialRecord struct {
	PrincipalID    string
	PasswordDigest string
	Role           string
}

// NormalizeEmail trims and lower-cases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole reports whether role is one the platform knows about.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

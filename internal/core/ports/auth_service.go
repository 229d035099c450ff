package ports

import (
	"context"
	"time"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token       string
	PrincipalID string
	Role        string
	ExpiresAt   time.Time
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

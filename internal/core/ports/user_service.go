package ports

import (
	"context"

	"github.com/musicplayer/platform/internal/core/domain"
)

// RegisterUserInput is the DTO passed from the transport layer to UserService.Register.
type RegisterUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	CredentialsByEmail(ctx context.Context, email string) (*domain.User, error)
	SetRole(ctx context.Context, id int64, role string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

package ports

import (
	"context"

	"github.com/musicplayer/platform/internal/core/domain"
)

// UserRepository defines persistence for the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

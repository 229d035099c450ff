package ports

import (
	"context"

	"github.com/musicplayer/platform/internal/core/domain"
)

// UserLookup resolves credential records by email.
//
// It returns domain.ErrUserNotFound when the directory has no such user and an error
// wrapping domain.ErrDependencyUnavailable when the directory cannot be reached or
// answers unexpectedly.
type UserLookup interface {
	ByEmail(ctx context.Context, email string) (*domain.CredentialRecord, error)
}

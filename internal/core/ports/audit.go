package ports

import (
	"context"

	"github.com/musicplayer/platform/internal/core/domain"
)

// AuditRecorder accepts login events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.LoginEvent)
}

// AuditRepository persists login events.
type AuditRepository interface {
	InsertLoginEvent(ctx context.Context, event domain.LoginEvent) error
}

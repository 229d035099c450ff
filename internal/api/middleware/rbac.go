package middleware

import (
	"fmt"

	"github.com/musicplayer/platform/internal/core/domain"
)

// authorize enforces role-based access control. An empty required role admits
// every principal; otherwise the principal's role must match exactly.
func authorize(p domain.Principal, required string) error {
	if required == "" || p.Role == required {
		return nil
	}
	return fmt.Errorf("%w: role %q, required %q", domain.ErrInsufficientRole, p.Role, required)
}

package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/musicplayer/platform/internal/api/middleware"
	"github.com/musicplayer/platform/internal/core/domain"
)

// ctxPrincipal extracts the principal attached by the gate. Its absence means
// the route was mounted without the gate, which is treated as unauthenticated.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.Subject == "" {
		return domain.Principal{}, domain.ErrMissingCredential
	}
	return p, nil
}

// pathID parses the :id route parameter. Non-numeric ids can never exist.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrUserNotFound
	}
	return id, nil
}

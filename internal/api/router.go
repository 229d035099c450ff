package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/musicplayer/platform/internal/api/handler"
	"github.com/musicplayer/platform/internal/api/middleware"
	"github.com/musicplayer/platform/internal/core/domain"
	"github.com/musicplayer/platform/internal/core/ports"
)

// AuthRouterDeps is everything the auth service's HTTP surface needs.
type AuthRouterDeps struct {
	Auth   ports.AuthService
	Gate   *middleware.Gate
	Health *handler.HealthHandler
	Log    zerolog.Logger
}

// UserRouterDeps is everything the user service's HTTP surface needs.
type UserRouterDeps struct {
	Users  ports.UserService
	Gate   *middleware.Gate
	Health *handler.HealthHandler
	Log    zerolog.Logger
}

// NewAuthRouter builds the Echo instance for the auth service.
func NewAuthRouter(deps AuthRouterDeps) *echo.Echo {
	e := newEcho("auth", deps.Health, deps.Log)

	authHandler := handler.NewAuthHandler(deps.Auth)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify, deps.Gate.Authenticate())
	e.POST("/auth/logout", authHandler.Logout, deps.Gate.Authenticate())

	return e
}

// NewUserRouter builds the Echo instance for the user directory service.
func NewUserRouter(deps UserRouterDeps) *echo.Echo {
	e := newEcho("users", deps.Health, deps.Log)

	userHandler := handler.NewUserHandler(deps.Users)
	authenticated := deps.Gate.Authenticate()
	admin := deps.Gate.Require(domain.RoleAdmin)

	// --- User routes ---
	e.POST("/users", userHandler.Register)
	e.GET("/users/email/:email", userHandler.ByEmail)
	e.GET("/users/me", userHandler.Me, authenticated)
	e.GET("/users/:id", userHandler.Get, authenticated)
	e.PUT("/users/:id/role", userHandler.SetRole, admin)
	e.DELETE("/users/:id", userHandler.Delete, admin)

	return e
}

// newEcho wires the middleware, probes and tooling endpoints both services share.
// Request metrics go to a per-instance registry served together with the
// process-wide default one.
func newEcho(subsystem string, health *handler.HealthHandler, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	registry := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  subsystem,
		Registerer: registry,
	}))

	// --- Tooling ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	if health == nil {
		health = handler.NewHealthHandler(nil)
	}
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?

	return e
}

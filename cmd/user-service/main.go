// Command user-service serves the user directory the auth service logs in against.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/musicplayer/platform/docs"
	"github.com/musicplayer/platform/internal/api"
	"github.com/musicplayer/platform/internal/api/handler"
	"github.com/musicplayer/platform/internal/api/middleware"
	"github.com/musicplayer/platform/internal/core/service"
	"github.com/musicplayer/platform/internal/infrastructure/crypto"
	"github.com/musicplayer/platform/internal/infrastructure/db/mongo"
	"github.com/musicplayer/platform/internal/infrastructure/token"
	"github.com/musicplayer/platform/internal/pkg/config"
	"github.com/musicplayer/platform/pkg/logger"
)

const serviceName = "user-service"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	lg := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.ServiceName,
	})

	if cfg.Mongo.URI == "" {
		lg.Fatal().Msg("MONGO_URI is required by the user service")
	}
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: cfg.ServiceName})
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		if err := mongo.Disconnect(client); err != nil {
			lg.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	userRepo := mongo.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		lg.Fatal().Err(err).Msg("failed to create user indexes")
	}

	codec, err := token.NewJWTCodec(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build token codec")
	}

	userService := service.NewUserService(userRepo, crypto.NewBcrypt(cfg.Login.BcryptCost), lg)
	seedAdmin(ctx, userService, cfg.Seed, lg)

	e := api.NewUserRouter(api.UserRouterDeps{
		Users:  userService,
		Gate:   middleware.NewGate(codec, lg),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{"mongodb": handler.MongoPinger(db)}),
		Log:    lg,
	})

	go func() {
		lg.Info().Str("port", cfg.Port).Msg("user service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("http server")
		}
	}()

	waitForShutdown(lg)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("http shutdown")
	}
}

func seedAdmin(ctx context.Context, users *service.UserService, seed config.SeedConfig, lg zerolog.Logger) {
	if seed.AdminEmail == "" {
		return
	}
	admin, err := users.SeedAdmin(ctx, seed.AdminEmail, seed.AdminPassword)
	if err != nil {
		lg.Fatal().Err(err).Str("email", seed.AdminEmail).Msg("failed to seed admin")
	}
	lg.Info().Int64("user_id", admin.ID).Str("email", admin.Email).Msg("admin account ready")
}

func waitForShutdown(lg zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	lg.Info().Str("signal", sig.String()).Msg("shutting down")
}

// Command auth-service issues and verifies access tokens.
//
// @title                       MusicPlayer Auth Platform API
// @version                     1.0
// @description                 Login, token verification and user directory endpoints.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/musicplayer/platform/docs"
	"github.com/musicplayer/platform/internal/api"
	"github.com/musicplayer/platform/internal/api/handler"
	"github.com/musicplayer/platform/internal/api/middleware"
	"github.com/musicplayer/platform/internal/core/service"
	"github.com/musicplayer/platform/internal/infrastructure/crypto"
	"github.com/musicplayer/platform/internal/infrastructure/db/mongo"
	"github.com/musicplayer/platform/internal/infrastructure/db/redis"
	"github.com/musicplayer/platform/internal/infrastructure/queue"
	"github.com/musicplayer/platform/internal/infrastructure/token"
	"github.com/musicplayer/platform/internal/infrastructure/userclient"
	"github.com/musicplayer/platform/internal/pkg/config"
	"github.com/musicplayer/platform/pkg/logger"
)

const serviceName = "auth-service"

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

	codec, err := token.NewJWTCodec(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build token codec")
	}

	hasher := crypto.NewBcrypt(cfg.Login.BcryptCost)
	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build decoy digest")
	}

	deps := service.AuthDependencies{
		Users:    userclient.New(userclient.Config{BaseURL: cfg.UserService.URL, Timeout: cfg.UserService.Timeout}),
		Verifier: hasher,
		Tokens:   codec,
		Decoy:    decoy,
	}
	pingers := map[string]handler.Pinger{}

	// --- Login throttling (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB, ClientName: cfg.ServiceName})
		if err != nil {
			lg.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer closeRedis(rdb, lg)

		if cfg.Login.MaxFailures > 0 {
			deps.Throttle = redis.NewLoginThrottle(rdb, cfg.Login.MaxFailures, cfg.Login.FailureWindow)
		}
		pingers["redis"] = handler.RedisPinger(rdb)
	}

	// --- Login audit trail (optional) ---
	auditCtx, auditCancel := context.WithCancel(context.Background())
	defer auditCancel()

	var dispatcher *queue.Dispatcher
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: cfg.ServiceName})
		if err != nil {
			lg.Fatal().Err(err).Msg("failed to connect mongo")
		}
		defer func() {
			if err := mongo.Disconnect(client); err != nil {
				lg.Error().Err(err).Msg("mongo disconnect")
			}
		}()

		auditRepo := mongo.NewAuditRepository(db)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			lg.Fatal().Err(err).Msg("failed to create audit indexes")
		}
		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, auditRepo, lg)
		dispatcher.Start(auditCtx)
		deps.Audit = dispatcher
		pingers["mongodb"] = handler.MongoPinger(db)
	}

	e := api.NewAuthRouter(api.AuthRouterDeps{
		Auth:   service.NewAuthService(deps, cfg.JWT.TTL, lg),
		Gate:   middleware.NewGate(codec, lg),
		Health: handler.NewHealthHandler(pingers),
		Log:    lg,
	})

	go func() {
		lg.Info().Str("port", cfg.Port).Str("algorithm", codec.Algorithm()).Msg("auth service listening")
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

	// In-flight logins are done; let the audit workers drain.
	auditCancel()
	if dispatcher != nil {
		dispatcher.Wait()
	}
}

func closeRedis(rdb *goredis.Client, lg zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		lg.Error().Err(err).Msg("redis close")
	}
}

func waitForShutdown(lg zerolog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	lg.Info().Str("signal", sig.String()).Msg("shutting down")
}

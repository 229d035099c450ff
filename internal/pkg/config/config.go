package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	ServiceName string `env:"SERVICE_NAME"`

	JWT         JWTConfig
	UserService UserServiceConfig
	Login       LoginConfig
	Audit       AuditConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Seed        SeedConfig
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET_KEY, required"`
	Algorithm string        `env:"JWT_ALGORITHM,  default=HS256"`
	TTL       time.Duration `env:"JWT_TTL,        default=1h"`
}

type UserServiceConfig struct {
	URL     string        `env:"USER_SERVICE_URL,     default=http://localhost:8000"`
	Timeout time.Duration `env:"USER_SERVICE_TIMEOUT, default=3s"`
}

// LoginConfig tunes failed-login throttling. MaxFailures of 0 disables it.
type LoginConfig struct {
	MaxFailures   int64         `env:"LOGIN_MAX_FAILURES,   default=5"`
	FailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
	BcryptCost    int           `env:"BCRYPT_COST,          default=12"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// MongoConfig and RedisConfig have no default address: an empty value means the
// backing feature is not configured.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=musicplayer"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SeedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

var hmacAlgorithms = map[string]struct{}{"HS256": {}, "HS384": {}, "HS512": {}}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. Variables already set in the environment win
// over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for binaries: it panics when configuration is unusable.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY must not be empty"))
	}
	if _, ok := hmacAlgorithms[c.JWT.Algorithm]; !ok {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported (HS256, HS384, HS512)", c.JWT.Algorithm))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.UserService.Timeout <= 0 {
		errs = append(errs, errors.New("USER_SERVICE_TIMEOUT must be positive"))
	}
	if c.Login.MaxFailures < 0 {
		errs = append(errs, errors.New("LOGIN_MAX_FAILURES must not be negative"))
	}
	if c.Login.MaxFailures > 0 && c.Login.FailureWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_FAILURE_WINDOW must be positive"))
	}
	if (c.Seed.AdminEmail == "") != (c.Seed.AdminPassword == "") {
		errs = append(errs, errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set together"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

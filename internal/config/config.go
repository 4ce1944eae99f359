package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// devJWTKey signs tokens in dev mode when JWT_KEY is not set.
const devJWTKey = "dev-only-signing-key-do-not-use-in-production"

// Config holds all configuration for the application
type Config struct {
	AppMode        string `env:"APP_MODE, default=dev"`
	Port           string `env:"PORT, default=3000"`
	LogLevel       string `env:"LOG_LEVEL, default=info"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Redis    RedisConfig
	Cron     CronConfig
	Seed     SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST, default=localhost"`
	Port            string        `env:"DB_PORT, default=3306"`
	User            string        `env:"DB_USER, default=root"`
	Password        string        `env:"DB_PASS"`
	DBName          string        `env:"DB_NAME, default=credit_organization"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS, default=10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS, default=100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=1h"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Key             string        `env:"JWT_KEY"`
	Issuer          string        `env:"JWT_ISSUER, default=credit-organization-api"`
	Audience        string        `env:"JWT_AUDIENCE, default=credit-organization-client"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL, default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

// CookieConfig holds refresh cookie configuration
type CookieConfig struct {
	Secure bool   `env:"COOKIE_SECURE, default=true"`
	Domain string `env:"COOKIE_DOMAIN"`
}

// RedisConfig holds the catalog cache connection. An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB, default=0"`
	LoanTypeTTL time.Duration `env:"LOAN_TYPE_CACHE_TTL, default=10m"`
}

// CronConfig holds schedules for background jobs. An empty schedule
// disables the job.
type CronConfig struct {
	OverdueLoans         string `env:"CRON_OVERDUE_LOANS, default=@hourly"`
	ExpiredRefreshTokens string `env:"CRON_EXPIRED_REFRESH_TOKENS, default=@daily"`
}

// SeedConfig holds the accounts created on first start
type SeedConfig struct {
	Enabled          bool   `env:"SEED_ENABLED, default=true"`
	AdminEmail       string `env:"SEED_ADMIN_EMAIL, default=admin@gmail.com"`
	AdminPassword    string `env:"SEED_ADMIN_PASSWORD, default=Admin123*"`
	EmployeeEmail    string `env:"SEED_EMPLOYEE_EMAIL, default=alice.smith@company.com"`
	EmployeePassword string `env:"SEED_EMPLOYEE_PASSWORD, default=AliceSecure123!"`
}

// Load reads configuration from the .env file and environment variables
func Load(ctx context.Context) (*Config, error) {
	// .env is optional, the environment alone is enough
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith decodes configuration from base. Keys prefixed with DEV_ or
// PROD_, depending on APP_MODE, take precedence over bare keys.
func LoadWith(ctx context.Context, base envconfig.Lookuper) (*Config, error) {
	mode := "dev"
	if v, ok := base.Lookup("APP_MODE"); ok && strings.TrimSpace(v) != "" {
		mode = strings.TrimSpace(v)
	}
	if mode != "dev" && mode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", mode)
	}

	lookuper := envconfig.MultiLookuper(
		envconfig.PrefixLookuper(strings.ToUpper(mode)+"_", base),
		base,
	)

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	cfg.AppMode = mode

	if cfg.JWT.Key == "" {
		if cfg.IsProd() {
			return nil, errors.New("JWT_KEY must be set in prod mode")
		}
		cfg.JWT.Key = devJWTKey
	}
	if cfg.JWT.AccessTokenTTL <= 0 || cfg.JWT.RefreshTokenTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	return &cfg, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:4200"
	}
	return c.AllowedOrigins
}

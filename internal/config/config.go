// Package config provides application configuration loaded from environment
// variables (and an optional .env file) with defaults and validation. It
// centralizes server timeouts, logging, database selection, token secrets,
// rate limiting, login lockout, and observability settings.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Supported application environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool          `env:"ENABLE_HSTS" envDefault:"false"`
	HSTSMaxAge time.Duration `env:"HSTS_MAX_AGE" envDefault:"4320h"`
}

// DBConfig selects and tunes the storage backend.
type DBConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite|mysql
	Path       string `env:"DB_PATH" envDefault:"app.db"`   // SQLite file
	DSN        string `env:"DATABASE_URL"`                  // MySQL DSN
	LogQueries *bool  `env:"DB_LOG_QUERIES"`                // nil: follow APP_ENV
}

// JWTConfig holds token signing material and lifetimes.
type JWTConfig struct {
	Secret        string        `env:"JWT_SECRET,required,notEmpty"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET,required,notEmpty"`
	Issuer        string        `env:"JWT_ISSUER" envDefault:"go-board-backend"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
}

// RedisConfig configures the optional login lockout store. An empty Addr
// disables lockout entirely.
type RedisConfig struct {
	Addr             string        `env:"REDIS_ADDR"`
	Password         string        `env:"REDIS_PASSWORD"`
	DB               int           `env:"REDIS_DB" envDefault:"0"`
	MaxLoginAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LockoutDuration  time.Duration `env:"LOGIN_LOCKOUT" envDefault:"15m"`
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"go-board-backend"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1.0"`
}

// Config holds all configuration values for the application.
type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"` // development|production|test

	// Server
	Port              string        `env:"PORT" envDefault:"3000"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"20s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	MaxHeaderBytes    int           `env:"MAX_HEADER_BYTES" envDefault:"1048576"`
	GinMode           string        `env:"GIN_MODE" envDefault:"release"`

	// Logging / HTTP
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty   bool   `env:"LOG_PRETTY" envDefault:"false"`
	APIBasePath string `env:"API_BASE_PATH" envDefault:"/api"`
	Locale      string `env:"LOCALE" envDefault:"ko"`

	DB  DBConfig
	JWT JWTConfig

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Rate limiting
	RateRPS   float64 `env:"RATE_RPS" envDefault:"5"`
	RateBurst int     `env:"RATE_BURST" envDefault:"10"`
	// Credential endpoints (signup, login, refresh) per client IP; 0 disables.
	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE" envDefault:"30"`

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	Redis RedisConfig
	OTEL  OTELConfig
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// LogQueries reports whether SQL statements should be logged. Unless
// DB_LOG_QUERIES is set explicitly, queries are logged in development only.
func (c Config) LogQueries() bool {
	if c.DB.LogQueries != nil {
		return *c.DB.LogQueries
	}
	return c.Env == EnvDevelopment
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads an optional .env file, parses environment variables into
// Config, normalizes values, and validates the result.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	// --- normalization ---
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.GinMode = strings.ToLower(cfg.GinMode)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.APIBasePath = normalizeBasePath(cfg.APIBasePath)
	cfg.Locale = strings.ToLower(strings.TrimSpace(cfg.Locale))
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.CORS.AllowedOrigins = trimAll(cfg.CORS.AllowedOrigins)

	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	switch cfg.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return errors.New("APP_ENV must be one of: development, production, test")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	port, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || port < 1000 || port > 65535 {
		return errors.New("PORT must be a number between 1000 and 65535")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.Locale {
	case "ko", "en":
	default:
		return errors.New("LOCALE must be one of: ko, en")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case "mysql":
		if strings.TrimSpace(cfg.DB.DSN) == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=mysql")
		}
	default:
		return errors.New("DB_DRIVER must be one of: sqlite, mysql")
	}
	if cfg.JWT.Secret == cfg.JWT.RefreshSecret {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive durations")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return errors.New("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if cfg.AuthRatePerMinute < 0 {
		return errors.New("AUTH_RATE_PER_MINUTE must be >= 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.Redis.Addr != "" && (cfg.Redis.MaxLoginAttempts < 1 || cfg.Redis.LockoutDuration <= 0) {
		return errors.New("LOGIN_MAX_ATTEMPTS must be >= 1 and LOGIN_LOCKOUT > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}

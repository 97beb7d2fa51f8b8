package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/MrSnakeDoc/klotho/internal/logger"
	"github.com/MrSnakeDoc/klotho/internal/utils"
)

const (
	BackendLocal = "local"
	BackendRedis = "redis"
)

type Config struct {
	ListenPort      string        `env:"KLOTHO_LISTEN_PORT" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"KLOTHO_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxConns        int           `env:"KLOTHO_MAX_CONNS" envDefault:"256"` // concurrent connections accepted by the listener

	LogLevel  string `env:"KLOTHO_LOG_LEVEL" envDefault:"info"` // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `env:"KLOTHO_PRETTY_LOG" envDefault:"true"` // true => zap dev (color), false => zap prod (JSON)

	// Database
	DBDriver       string        `env:"KLOTHO_DB_DRIVER" envDefault:"sqlite"` // "sqlite" (modernc) | "sqlite3" (mattn)
	DBPath         string        `env:"KLOTHO_DB_PATH" envDefault:"./data/klotho.db"`
	DBMaxOpenConns int           `env:"KLOTHO_DB_MAX_OPEN_CONNS" envDefault:"1"`
	DBBusyTimeout  time.Duration `env:"KLOTHO_DB_BUSY_TIMEOUT" envDefault:"5s"`

	// Attachment storage
	StorageBackend string `env:"KLOTHO_STORAGE_BACKEND" envDefault:"local"` // "local" | "redis"
	StorageDir     string `env:"KLOTHO_STORAGE_DIR" envDefault:"./data/blobs"`
	MaxUploadBytes int64  `env:"KLOTHO_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// Redis (only used by the redis storage backend)
	RedisAddr     string        `env:"KLOTHO_REDIS_ADDR"`
	RedisUser     string        `env:"KLOTHO_REDIS_USERNAME"`
	RedisPassword string        `env:"KLOTHO_REDIS_PASSWORD"`
	RedisDB       int           `env:"KLOTHO_REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"KLOTHO_REDIS_PREFIX" envDefault:"klotho:blob:"`
	RedisDT       time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	RedisRT       time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	RedisWT       time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Startup retry policy, shared by the database and redis connectors
	ConnectTimeout time.Duration `env:"KLOTHO_CONNECT_TIMEOUT" envDefault:"30s"`
	RetryInterval  time.Duration `env:"KLOTHO_RETRY_INTERVAL" envDefault:"2s"`
	MaxWait        time.Duration `env:"KLOTHO_MAX_WAIT" envDefault:"10s"`
	PingTimeout    time.Duration `env:"KLOTHO_PING_TIMEOUT" envDefault:"5s"`
	WarnThreshold  int           `env:"KLOTHO_WARN_THRESHOLD" envDefault:"3"`

	// Access restrictions
	AllowedHosts []string `env:"KLOTHO_ALLOWED_HOSTS" envSeparator:","` // optional, restrict Host headers
	AllowedCIDRS []string `env:"KLOTHO_ALLOWED_CIDRS" envSeparator:","` // optional, restrict client IPs
	TrustProxy   bool     `env:"KLOTHO_TRUST_PROXY" envDefault:"false"` // true => trust X-Forwarded-For headers
	CORSOrigins  []string `env:"KLOTHO_CORS_ORIGINS" envSeparator:","`  // optional, browser origins allowed to call the API

	// Rate limiting of mutating routes
	RateLimitBurst  int `env:"KLOTHO_RATE_LIMIT_BURST" envDefault:"30"`
	RateLimitPerMin int `env:"KLOTHO_RATE_LIMIT_PER_MIN" envDefault:"60"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AllowedHosts = splitAndTrim(cfg.AllowedHosts)
	cfg.AllowedCIDRS = splitAndTrim(cfg.AllowedCIDRS)
	cfg.CORSOrigins = splitAndTrim(cfg.CORSOrigins)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("KLOTHO_LOG_LEVEL: unknown level %q", c.LogLevel))
	}
	switch c.DBDriver {
	case "sqlite", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("KLOTHO_DB_DRIVER: unsupported driver %q", c.DBDriver))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("KLOTHO_DB_PATH is required"))
	}
	switch c.StorageBackend {
	case BackendLocal:
		if strings.TrimSpace(c.StorageDir) == "" {
			errs = append(errs, errors.New("KLOTHO_STORAGE_DIR is required for the local backend"))
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("KLOTHO_REDIS_ADDR is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("KLOTHO_STORAGE_BACKEND: unknown backend %q", c.StorageBackend))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("KLOTHO_MAX_UPLOAD_BYTES must be > 0, got %d", c.MaxUploadBytes))
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxConns <= 0 {
		errs = append(errs, fmt.Errorf("KLOTHO_MAX_CONNS must be > 0, got %d", c.MaxConns))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("KLOTHO_SHUTDOWN_TIMEOUT must be > 0, got %v", c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

// RetryPolicy returns the startup policy shared by every connector.
func (c *Config) RetryPolicy() utils.RetryPolicy {
	return utils.RetryPolicy{
		TotalTimeout:  c.ConnectTimeout,
		InitialWait:   c.RetryInterval,
		MaxWait:       c.MaxWait,
		PingTimeout:   c.PingTimeout,
		WarnThreshold: c.WarnThreshold,
	}
}

// Redacted returns a copy that is safe to log.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	return c
}

// splitAndTrim trims spaces and surrounding quotes, dropping empty entries.
func splitAndTrim(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return parts
}

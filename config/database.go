package config

import (
	"fmt"
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"hosteldesk"`
	Password string `env:"PASSWORD"                envDefault:"hosteldesk"`
	Name     string `env:"NAME"                    envDefault:"hosteldesk"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// DSN returns a pgx-compatible connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// SessionBackend selects where sessions are persisted.
type SessionBackend string

const (
	// SessionBackendMemory keeps sessions in process memory. Sessions are
	// lost on restart; suitable for development and tests.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis persists sessions in Redis so they survive
	// restarts and are shared across replicas.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

// SessionConfig controls the session store.
type SessionConfig struct {
	// Backend selects the session store implementation.
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`

	// CleanupInterval is how often the in-memory store sweeps expired
	// sessions. Ignored for the Redis backend, which relies on key TTLs.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = SessionBackendMemory
	}
	if s.CleanupInterval < time.Minute {
		s.CleanupInterval = time.Minute
	}
}

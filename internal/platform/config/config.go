// Package config builds runtime configuration from the environment so main
// stays lean. A .env file is honored in development; real deployments set
// the variables directly.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Postgres captures the database connection settings. An empty URL selects
// the in-memory stores (dev and test mode).
type Postgres struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// Redis captures the pending-counts cache settings. An empty URL disables
// the cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures the event pipeline settings. Empty brokers disable
// publishing; the outbox still accumulates.
type Kafka struct {
	Brokers      []string
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

// Auth captures token validation settings.
type Auth struct {
	JWTSigningKey string
}

// Config is the full application configuration.
type Config struct {
	Server        Server
	Postgres      Postgres
	Redis         Redis
	Kafka         Kafka
	Auth          Auth
	AuthorityPath string // optional YAML role-to-stages override
}

// FromEnv builds a Config from environment variables, loading .env first
// when present.
func FromEnv() Config {
	_ = godotenv.Load()

	jwtSigningKey := os.Getenv("HRGATE_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Server: Server{
			Addr:              envString("HRGATE_ADDR", ":8080"),
			ReadHeaderTimeout: envDuration("HRGATE_READ_HEADER_TIMEOUT", 5*time.Second),
			IdleTimeout:       envDuration("HRGATE_IDLE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout:   envDuration("HRGATE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: Postgres{
			URL:          os.Getenv("HRGATE_POSTGRES_URL"),
			MaxOpenConns: envInt("HRGATE_POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("HRGATE_POSTGRES_MAX_IDLE_CONNS", 5),
		},
		Redis: Redis{
			URL:          os.Getenv("HRGATE_REDIS_URL"),
			PoolSize:     envInt("HRGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("HRGATE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("HRGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("HRGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("HRGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:      envList("HRGATE_KAFKA_BROKERS"),
			Topic:        envString("HRGATE_KAFKA_TOPIC", "hr.absence.events"),
			PollInterval: envDuration("HRGATE_OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    envInt("HRGATE_OUTBOX_BATCH_SIZE", 100),
		},
		Auth: Auth{
			JWTSigningKey: jwtSigningKey,
		},
		AuthorityPath: os.Getenv("HRGATE_AUTHORITY_CONFIG"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

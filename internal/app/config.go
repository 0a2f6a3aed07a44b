// Package app wires configuration, storage, services and servers into a
// runnable process.
package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage driver selection.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config carries every runtime setting. Defaults suit local development;
// production overrides come from the environment.
type Config struct {
	// HTTPAddr is the API listener.
	HTTPAddr string
	// OpsAddr serves /metrics and health probes on a second listener.
	OpsAddr string

	StorageDriver string
	PostgresDSN   string
	// AutoMigrate applies pending migrations at startup.
	AutoMigrate bool

	// RedisAddr enables the cross-instance pub/sub bridge when non-empty.
	RedisAddr string
	// KafkaBrokers enables the Kafka event publisher when non-empty.
	KafkaBrokers []string

	JWTSecret string
	TokenTTL  time.Duration

	// SeedDemoData loads a small demo data set into memory storage.
	SeedDemoData bool
}

// DefaultConfig returns local-development defaults: in-memory storage,
// no brokers.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		OpsAddr:       ":9090",
		StorageDriver: StorageMemory,
		JWTSecret:     "dev-secret-change-me",
		TokenTTL:      24 * time.Hour,
		SeedDemoData:  true,
	}
}

// LoadConfig overlays environment variables on the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("OPS_ADDR"); v != "" {
		cfg.OpsAddr = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = b
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitCSV(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v := os.Getenv("SEED_DEMO_DATA"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SEED_DEMO_DATA: %w", err)
		}
		cfg.SeedDemoData = b
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required with the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

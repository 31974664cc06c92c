// Package config loads runtime configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds everything the server and CLI need to start.
type Config struct {
	Addr        string        // QIKAO_ADDR, listen address
	StoreKind   string        // QIKAO_STORE: memory | sqlite | redis
	SQLitePath  string        // QIKAO_SQLITE_PATH
	RedisAddr   string        // QIKAO_REDIS_ADDR
	SessionTTL  time.Duration // QIKAO_SESSION_TTL, redis mirror expiry
	MenuPath    string        // QIKAO_MENU_PATH, empty = built-in catalog
	LogLevel    slog.Level    // QIKAO_LOG_LEVEL: debug | info | warn | error
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win over the file.
func Load() (*Config, error) {
	// Ignore a missing .env; it is a development convenience.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getEnv("QIKAO_ADDR", ":8080"),
		StoreKind:  getEnv("QIKAO_STORE", StoreMemory),
		SQLitePath: getEnv("QIKAO_SQLITE_PATH", "qikao.db"),
		RedisAddr:  getEnv("QIKAO_REDIS_ADDR", "localhost:6379"),
		MenuPath:   os.Getenv("QIKAO_MENU_PATH"),
	}

	switch cfg.StoreKind {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return nil, fmt.Errorf("QIKAO_STORE %q: must be %s, %s or %s",
			cfg.StoreKind, StoreMemory, StoreSQLite, StoreRedis)
	}

	ttl := getEnv("QIKAO_SESSION_TTL", "24h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("QIKAO_SESSION_TTL %q: %w", ttl, err)
	}
	cfg.SessionTTL = d

	level, err := parseLevel(getEnv("QIKAO_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// NewLogger builds the JSON logger the rest of the process uses.
func (c *Config) NewLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel})
	return slog.New(handler)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("QIKAO_LOG_LEVEL %q: must be debug, info, warn or error", s)
	}
}

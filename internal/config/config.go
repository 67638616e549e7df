package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Env             string
	ListenAddr      string
	Version         string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	StoreBackend string
	DataFile     string
	DatabaseURL  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the environment. A non-nil error is a warning about the
// resulting config; callers decide whether it is fatal.
func Load() (Config, error) {
	cfg := Config{
		Env:             getenv("APP_ENV", "development"),
		ListenAddr:      getenv("LISTEN_ADDR", ":"+getenv("PORT", "10000")),
		Version:         getenv("APP_VERSION", "2.0.0"),
		LogLevel:        parseLogLevel(getenv("LOG_LEVEL", "info")),
		ShutdownTimeout: time.Duration(getenvInt("SHUTDOWN_TIMEOUT_MS", 5000)) * time.Millisecond,
		StoreBackend:    strings.ToLower(getenv("STORE_BACKEND", BackendFile)),
		DataFile:        getenv("DATA_FILE", "verification_data.json"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getenvInt("REDIS_DB", 0),
		RedisKey:        getenv("REDIS_KEY", "indigenous-verify:state"),
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the selected backend cannot run with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file backend")
		}
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

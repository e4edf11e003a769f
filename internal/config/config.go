package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	LogLevel    slog.Level
	LogFormat   string
	ServiceName string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string

	// DefaultVariant is used by /api/encode and /api/decode when a request
	// names none.
	DefaultVariant string

	LocalCacheItems int64
	LocalCacheTTL   time.Duration
}

// Load reads configuration from the environment, after loading .env if it
// exists. Malformed values keep their defaults.
func Load() Config {
	cfg := Config{
		Addr:            ":8080",
		BaseURL:         "http://localhost:8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		LogLevel:    slog.LevelInfo,
		LogFormat:   "json",
		ServiceName: "obfuscator",

		DBHost: "localhost",
		DBPort: "5432",
		DBName: "obfuscator",

		RedisAddr: "localhost:6379",

		DefaultVariant: "36",

		LocalCacheItems: 100000,
		LocalCacheTTL:   5 * time.Minute,
	}

	_ = godotenv.Load()

	stringVar(&cfg.Addr, "ADDR")
	stringVar(&cfg.BaseURL, "BASE_URL")
	durationVar(&cfg.ReadTimeout, "READ_TIMEOUT")
	durationVar(&cfg.WriteTimeout, "WRITE_TIMEOUT")
	durationVar(&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT")

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = parseLevel(v)
	}
	stringVar(&cfg.LogFormat, "LOG_FORMAT")
	stringVar(&cfg.ServiceName, "SERVICE_NAME")

	stringVar(&cfg.DBHost, "DB_HOST")
	stringVar(&cfg.DBPort, "DB_PORT")
	stringVar(&cfg.DBUser, "DB_USER")
	stringVar(&cfg.DBPassword, "DB_PASSWORD")
	stringVar(&cfg.DBName, "DB_NAME")
	stringVar(&cfg.RedisAddr, "REDIS_ADDR")

	stringVar(&cfg.DefaultVariant, "DEFAULT_VARIANT")

	if v, ok := os.LookupEnv("LOCAL_CACHE_ITEMS"); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.LocalCacheItems = n
		}
	}
	durationVar(&cfg.LocalCacheTTL, "LOCAL_CACHE_TTL")

	return cfg
}

// PostgresDSN returns a lib/pq keyword/value connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// NewLogger builds the process logger from LogFormat and LogLevel.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var h slog.Handler
	if strings.ToLower(c.LogFormat) == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h).With("service", c.ServiceName)
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func stringVar(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func durationVar(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

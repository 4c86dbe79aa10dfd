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

// Config holds all runtime configuration. It is constructed once at startup
// and injected into every component; nothing reads the environment after
// LoadConfig returns.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL  string
	DBRetryCount int
	DBRetryDelay time.Duration
	DBLogQueries bool

	JWTSecret   string
	TokenExpiry time.Duration

	RedisURL     string
	KafkaBrokers []string
}

// LoadConfig reads .env (when present) and the process environment.
// Missing required keys are an error; main treats that as fatal.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBRetryCount: getEnvInt("DB_RETRY_COUNT", 5),
		DBRetryDelay: time.Duration(getEnvInt("DB_RETRY_TIMEOUT", 5)) * time.Second,
		DBLogQueries: getEnvBool("DB_LOG_QUERIES", false),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenExpiry:  24 * time.Hour,
		RedisURL:     os.Getenv("REDIS_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBRetryCount < 1 {
		return nil, fmt.Errorf("DB_RETRY_COUNT must be at least 1")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is read from the environment once at startup. Binaries load a .env
// file first through godotenv/autoload.
type Config struct {
	Port      string
	LogLevel  logrus.Level
	PublicURL string

	// AllowedOrigins feeds the CORS middleware of the HTTP routes.
	AllowedOrigins []string

	TurnTimeout   time.Duration
	SweepInterval time.Duration

	RedisAddr   string // empty disables the action log
	RedisDB     int
	QueueName   string
	DatabaseURL string

	HistorianBatchSize int
	HistorianFlush     time.Duration

	MessagesPerSecond float64
	MessageBurst      int
}

// Load reads every setting, applying defaults for unset variables.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:8080"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		QueueName:   getEnv("HISTORIAN_QUEUE_NAME", "liarsdeck_actions"),
		DatabaseURL: databaseURL(),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "https://*,http://*")),
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	turnSec, err := getEnvInt("TURN_TIMEOUT_SEC", 30, 1)
	if err != nil {
		return cfg, err
	}
	cfg.TurnTimeout = time.Duration(turnSec) * time.Second

	sweepMs, err := getEnvInt("SWEEP_INTERVAL_MS", 1000, 10)
	if err != nil {
		return cfg, err
	}
	cfg.SweepInterval = time.Duration(sweepMs) * time.Millisecond

	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0, 0); err != nil {
		return cfg, err
	}
	if cfg.HistorianBatchSize, err = getEnvInt("HISTORIAN_BATCH_SIZE", 20, 1); err != nil {
		return cfg, err
	}
	flushMs, err := getEnvInt("HISTORIAN_FLUSH_MS", 500, 1)
	if err != nil {
		return cfg, err
	}
	cfg.HistorianFlush = time.Duration(flushMs) * time.Millisecond

	perSec, err := getEnvInt("WS_MESSAGES_PER_SEC", 10, 1)
	if err != nil {
		return cfg, err
	}
	cfg.MessagesPerSecond = float64(perSec)
	if cfg.MessageBurst, err = getEnvInt("WS_MESSAGE_BURST", 20, 1); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the individual Postgres variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if os.Getenv("PG_HOST") == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		getEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an integer variable, rejecting garbage and values below minVal.
func getEnvInt(key string, def, minVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, s)
	}
	if v < minVal {
		return 0, fmt.Errorf("%s must be at least %d", key, minVal)
	}
	return v, nil
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	ListenAddr string

	RedisURL    string
	DatabaseURL string
	WebhookURL  string

	MessagesLocale string
	MessagesDir    string

	ResetOnConnect bool
	AllowedOrigins []string

	HistoryLimit    int
	ScoreboardLimit int
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:      ":3001",
		MessagesLocale:  "en",
		HistoryLimit:    200,
		ScoreboardLimit: 20,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.WebhookURL = strings.TrimSpace(os.Getenv("WEBHOOK_URL"))

	if v := strings.TrimSpace(os.Getenv("MESSAGES_LOCALE")); v != "" {
		cfg.MessagesLocale = strings.ToLower(v)
	}
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("RESET_ON_CONNECT")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ResetOnConnect = b
		}
	}
	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))

	if v := strings.TrimSpace(os.Getenv("HISTORY_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SCOREBOARD_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ScoreboardLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("WS_WRITE_TIMEOUT")); v != "" { // Go duration, e.g. 3s
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.WriteTimeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ShutdownTimeout = d
		}
	}

	if cfg.MessagesLocale != "en" && cfg.MessagesLocale != "ko" {
		return nil, errors.New("MESSAGES_LOCALE must be en or ko")
	}
	if cfg.RedisURL != "" && !strings.HasPrefix(cfg.RedisURL, "redis://") && !strings.HasPrefix(cfg.RedisURL, "rediss://") {
		return nil, errors.New("REDIS_URL must use redis:// or rediss://")
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

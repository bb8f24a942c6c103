// Package config handles runtime settings for the bot binary.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings.
type Config struct {
	TelegramToken  string
	ChatID         int64
	DatabaseURL    string
	Namespace      string
	ReportTime     string // HH:MM, takes precedence over the interval
	ReportInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults,
// after a best-effort .env load.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Namespace:      strings.TrimSpace(os.Getenv("SUPERTODO_NAMESPACE")),
		ReportTime:     strings.TrimSpace(os.Getenv("REPORT_TIME")),
		ReportInterval: parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "supertodo.db"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "supertodo"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	rawChat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if rawChat == "" {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	chatID, err := strconv.ParseInt(rawChat, 10, 64)
	if err != nil {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
	}
	cfg.ChatID = chatID

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

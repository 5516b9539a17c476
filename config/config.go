package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the worker's environment-driven settings.
type Config struct {
	// Remote collaborators
	APIURL      string // attendance ingestion endpoint
	ShiftAPIURL string // shift configuration endpoint
	APIKey      string // x-api-key for the shift API

	// Identifiers stamped on delivered events
	BranchID   string
	CompanyID  string
	DeviceName string

	// Punch source: "bridge" for the HTTP push endpoint, or a path to a
	// JSON punch log for replay/backfill
	PunchSource string
	ListenAddr  string // punch bridge listen address

	// Processing
	StartDate     time.Time     // watermark default when no checkpoint exists
	CycleInterval time.Duration // delay between sync cycles
	StateDir      string

	// Observability
	MetricsAddr string // empty disables the metrics endpoint

	// Telegram Bot
	TelegramBotToken string
	AuthorizedChatID string
}

// LoadConfig reads the environment, loading .env when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:           os.Getenv("API_URL"),
		ShiftAPIURL:      os.Getenv("SHIFT_API_URL"),
		APIKey:           os.Getenv("X_API_KEY"),
		BranchID:         os.Getenv("BRANCH_ID"),
		CompanyID:        os.Getenv("COMPANY_ID"),
		DeviceName:       getenv("DEVICE_NAME", "Primary"),
		PunchSource:      getenv("PUNCH_SOURCE", "bridge"),
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		StateDir:         getenv("STATE_DIR", "."),
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AuthorizedChatID: os.Getenv("AUTHORIZED_CHAT_ID"),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API_URL is required")
	}
	if cfg.BranchID == "" || cfg.CompanyID == "" {
		return nil, fmt.Errorf("BRANCH_ID and COMPANY_ID are required")
	}

	startDate, err := parseStartDate(getenv("START_DATE", "2025-05-01"))
	if err != nil {
		return nil, fmt.Errorf("parse START_DATE: %w", err)
	}
	cfg.StartDate = startDate

	interval, err := time.ParseDuration(getenv("CYCLE_INTERVAL", "2m"))
	if err != nil {
		return nil, fmt.Errorf("parse CYCLE_INTERVAL: %w", err)
	}
	cfg.CycleInterval = interval

	return cfg, nil
}

// parseStartDate accepts a bare date or a date with time.
func parseStartDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

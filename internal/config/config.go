package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken     string  `envconfig:"BOT_TOKEN" required:"true"`
	DBPath       string  `envconfig:"DB_PATH" default:"./data/subscribers.db"`
	ContestsPath string  `envconfig:"CONTESTS_PATH" default:"./data/contests.json"`
	RunMode      string  `envconfig:"RUN_MODE" default:"polling"` // polling|webhook
	WebhookURL   string  `envconfig:"WEBHOOK_URL"`                // public URL, webhook mode only
	HTTPAddr     string  `envconfig:"HTTP_ADDR" default:":8080"`  // healthz + webhook endpoint
	LogLevel     string  `envconfig:"LOG_LEVEL" default:"info"`   // debug|info|warn|error
	DailyHour    int     `envconfig:"DAILY_HOUR" default:"4"`     // local hour of the daily cycle
	SendRate     float64 `envconfig:"SEND_RATE" default:"4"`      // outbound messages per second
}

// Load reads an optional .env file and then the environment into Config.
func Load() (Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.RunMode != "polling" && cfg.RunMode != "webhook" {
		return cfg, errors.New("RUN_MODE must be polling or webhook")
	}
	if cfg.RunMode == "webhook" && cfg.WebhookURL == "" {
		return cfg, errors.New("WEBHOOK_URL is required in webhook mode")
	}
	if cfg.DailyHour < 0 || cfg.DailyHour > 23 {
		return cfg, errors.New("DAILY_HOUR must be 0..23")
	}
	return cfg, nil
}

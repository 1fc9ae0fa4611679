package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// Upper bound for a single thread fetch against the mail provider
	GatewayTimeout   time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"8s"`
	GmailMaxMessages int64         `env:"GMAIL_MAX_MESSAGES" envDefault:"50"`
	IMAPDialTimeout  time.Duration `env:"IMAP_DIAL_TIMEOUT" envDefault:"15s"`

	// How long an un-replied contact waits before it becomes follow-up eligible
	FollowUpGraceWindow time.Duration `env:"FOLLOWUP_GRACE_WINDOW" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GmailEnabled returns true if OAuth client credentials are configured
func (c *Config) GmailEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.GatewayTimeout <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT must be positive, got %s", cfg.GatewayTimeout)
	}
	if cfg.FollowUpGraceWindow <= 0 {
		return nil, fmt.Errorf("FOLLOWUP_GRACE_WINDOW must be positive, got %s", cfg.FollowUpGraceWindow)
	}
	if cfg.GmailMaxMessages <= 0 || cfg.GmailMaxMessages > 500 {
		cfg.GmailMaxMessages = 50 // Gmail API maximum is 500
	}

	return cfg, nil
}

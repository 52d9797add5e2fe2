// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session
// secret. 32 bytes gives enough entropy for session token authentication.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"BLOG_DB_PATH" envDefault:"./data/blog.db"`
	SessionSecret string `env:"BLOG_SESSION_SECRET,required"`
	ServerHost    string `env:"BLOG_SERVER_HOST" envDefault:""`
	ServerPort    int    `env:"BLOG_SERVER_PORT" envDefault:"3000"`
	Env           string `env:"BLOG_ENV" envDefault:"development"`
	LogLevel      string `env:"BLOG_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"BLOG_UPLOADS_DIR" envDefault:"./uploads"`

	// Mail relay credentials. Notification email is disabled when the host
	// is empty; sends are then logged and skipped.
	SMTPHost     string `env:"BLOG_SMTP_HOST"`
	SMTPPort     int    `env:"BLOG_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"BLOG_SMTP_USER"`
	SMTPPassword string `env:"BLOG_SMTP_PASSWORD"`
	MailFrom     string `env:"BLOG_MAIL_FROM"`
	// AdminEmail receives contact-form alerts. Defaults to SMTPUser.
	AdminEmail string `env:"BLOG_ADMIN_EMAIL"`

	// WeatherAPIKey enables the /weather lookup against OpenWeatherMap.
	WeatherAPIKey string `env:"BLOG_WEATHER_API_KEY"`

	// DoSeed enables creation of the default admin account at startup.
	DoSeed bool `env:"BLOG_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if a mail relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// ContactAlertRecipient returns the address that receives contact-form
// alerts.
func (c Config) ContactAlertRecipient() string {
	if c.AdminEmail != "" {
		return c.AdminEmail
	}
	return c.SMTPUser
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	return cfg, nil
}

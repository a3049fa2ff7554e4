package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server (ops surface: health + webhook)
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// CashPilot backend
	APIURL             string `mapstructure:"CASHPILOT_API_URL" validate:"required,url"`
	APIKey             string `mapstructure:"CASHPILOT_API_KEY"`
	HTTPTimeoutSeconds int    `mapstructure:"HTTP_TIMEOUT_SECONDS" validate:"gt=0"`

	// Redis — optional. Empty means the in-memory linkage store.
	RedisURL string `mapstructure:"REDIS_URL"`

	// Bot
	DefaultBusinessID  string `mapstructure:"DEFAULT_BUSINESS_ID" validate:"omitempty,uuid"`
	WebhookSecret      string `mapstructure:"WEBHOOK_SECRET"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE" validate:"gt=0"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CASHPILOT_API_URL", "http://localhost:8000")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 30)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

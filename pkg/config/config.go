package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// ChartTemplatePath points at the default chart-of-accounts template
	// merged underneath bootstrap requests that ask for it.
	ChartTemplatePath string `mapstructure:"CHART_TEMPLATE_PATH"`

	// PosthogAPIKey enables the audit sink; empty disables it.
	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`

	// RateLimit is an ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string `mapstructure:"RATE_LIMIT"`

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CHART_TEMPLATE_PATH", "templates/default_chart.json")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.ChartTemplatePath = viper.GetString("CHART_TEMPLATE_PATH")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	shutdownStr := viper.GetString("SHUTDOWN_TIMEOUT")
	shutdownTimeout, err := time.ParseDuration(shutdownStr)
	if err != nil {
		shutdownTimeout = 10 * time.Second
		if shutdownStr != "" {
			log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT ('%s'). Defaulting to %s.\n", shutdownStr, shutdownTimeout)
		}
	}
	cfg.ShutdownTimeout = shutdownTimeout

	if cfg.PosthogAPIKey == "" {
		log.Println("Warning: POSTHOG_API_KEY not set. Audit events will only be logged.")
	}

	return cfg, nil
}

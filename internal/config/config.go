package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// BrowserControlURL points at a remote rod launcher manager
	// (e.g. ws://localhost:7317). Empty launches a local browser.
	BrowserControlURL string `validate:"omitempty,url"`
	BrowserHeadless   bool
	ElementTimeout    time.Duration `validate:"gt=0"`
	PollInterval      time.Duration `validate:"gt=0,ltefield=ElementTimeout"`
	LogLevel          string        `validate:"oneof=trace debug info warn warning error fatal panic"`
	ArtifactsDir      string        `validate:"required"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	timeout, err := getDuration("ELEMENT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := getDuration("ELEMENT_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	headless, err := strconv.ParseBool(getEnv("BROWSER_HEADLESS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid BROWSER_HEADLESS: %w", err)
	}

	cfg := &Config{
		BrowserControlURL: getEnv("BROWSER_CONTROL_URL", ""),
		BrowserHeadless:   headless,
		ElementTimeout:    timeout,
		PollInterval:      interval,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ArtifactsDir:      getEnv("ARTIFACTS_DIR", "artifacts"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

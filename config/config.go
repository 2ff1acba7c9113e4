package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wheelStrategyBot/internal/adapters/logger" // Import the logger package for LogLevel
	"wheelStrategyBot/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Alpaca API (optional: missing keys run the bot in simulation mode)
	APIKey    string
	SecretKey string
	BaseURL   string

	// Order Submission
	TimeInForce         domain.TimeInForce
	OrderTimeout        time.Duration
	BrokerRatePerMinute int

	// Wheel Strategy Parameters
	WheelSymbol      string
	WheelPutStrike   float64
	WheelPutPremium  float64
	WheelCallStrike  float64
	WheelCallPremium float64

	// Transport
	HTTPAddr   string
	WebhookURL string // Where the advisor CLI submits approved signals

	// Persistence
	DBPath    string
	StatePath string

	// Logging
	LogLevel logger.LogLevel
}

// HasBrokerCredentials reports whether Alpaca credentials were provided.
// Without them the pipeline runs in simulation mode and records no_broker
// outcomes instead of failing.
func (c *Config) HasBrokerCredentials() bool {
	return c.APIKey != "" && c.SecretKey != ""
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Alpaca API (optional)
	cfg.APIKey = getEnv("APCA_API_KEY_ID", "")
	cfg.SecretKey = getEnv("APCA_API_SECRET_KEY", "")
	cfg.BaseURL = getEnv("ALPACA_BASE_URL", "https://paper-api.alpaca.markets")

	// Order Submission
	tif := strings.ToLower(getEnv("TIME_IN_FORCE", "day"))
	switch tif {
	case "day":
		cfg.TimeInForce = domain.Day
	case "gtc":
		cfg.TimeInForce = domain.GTC
	default:
		errs = append(errs, fmt.Sprintf("TIME_IN_FORCE must be day or gtc, got %q", tif))
	}

	timeoutSeconds := getEnvAsInt("ORDER_TIMEOUT_SECONDS", 10)
	if timeoutSeconds <= 0 {
		errs = append(errs, "ORDER_TIMEOUT_SECONDS must be positive")
	}
	cfg.OrderTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.BrokerRatePerMinute = getEnvAsInt("BROKER_RATE_PER_MINUTE", 60)
	if cfg.BrokerRatePerMinute <= 0 {
		errs = append(errs, "BROKER_RATE_PER_MINUTE must be positive")
	}

	// Wheel Strategy Parameters
	cfg.WheelSymbol = getEnv("WHEEL_SYMBOL", "AAPL")
	if cfg.WheelSymbol == "" {
		errs = append(errs, "WHEEL_SYMBOL must be set")
	}

	cfg.WheelPutStrike, err = getEnvAsFloatRequired("WHEEL_PUT_STRIKE", 180.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WHEEL_PUT_STRIKE: %v", err))
	} else if cfg.WheelPutStrike <= 0 {
		errs = append(errs, "WHEEL_PUT_STRIKE must be positive")
	}

	cfg.WheelPutPremium, err = getEnvAsFloatRequired("WHEEL_PUT_PREMIUM", 1.50)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WHEEL_PUT_PREMIUM: %v", err))
	} else if cfg.WheelPutPremium <= 0 {
		errs = append(errs, "WHEEL_PUT_PREMIUM must be positive")
	}

	cfg.WheelCallStrike, err = getEnvAsFloatRequired("WHEEL_CALL_STRIKE", 190.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WHEEL_CALL_STRIKE: %v", err))
	} else if cfg.WheelCallStrike <= 0 {
		errs = append(errs, "WHEEL_CALL_STRIKE must be positive")
	}

	cfg.WheelCallPremium, err = getEnvAsFloatRequired("WHEEL_CALL_PREMIUM", 1.75)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WHEEL_CALL_PREMIUM: %v", err))
	} else if cfg.WheelCallPremium <= 0 {
		errs = append(errs, "WHEEL_CALL_PREMIUM must be positive")
	}

	// Transport
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8000")
	cfg.WebhookURL = getEnv("WEBHOOK_URL", "http://localhost:8000/webhook")
	if cfg.WebhookURL == "" {
		errs = append(errs, "WEBHOOK_URL must be set")
	}

	// Persistence
	cfg.DBPath = getEnv("DB_PATH", "./data/wheel_bot.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}
	cfg.StatePath = getEnv("STATE_PATH", "./bot_state.json")
	if cfg.StatePath == "" {
		errs = append(errs, "STATE_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

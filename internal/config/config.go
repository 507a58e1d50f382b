// Package config provides configuration management for polystories.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all application configuration.
type Config struct {
	// Discord
	DiscordWebhookURL string
	BotUsername       string
	BotAvatarURL      string

	// Telegram mirror, enabled when both are set
	TelegramBotToken string
	TelegramChatID   int64

	// Polymarket API settings
	GammaAPIURL string
	DataAPIURL  string
	HTTPTimeout time.Duration

	// Scheduler
	StorySchedule string

	Debug bool
}

// Load loads configuration from environment variables.
func Load(logger zerolog.Logger) (*Config, error) {
	// Try to load .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		// Discord
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		BotUsername:       getEnv("BOT_USERNAME", "Polymarket Bot"),
		BotAvatarURL:      getEnv("BOT_AVATAR_URL", "https://polymarket.com/favicon.ico"),

		// Telegram
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		// Polymarket
		GammaAPIURL: getEnv("POLYMARKET_GAMMA_URL", "https://gamma-api.polymarket.com"),
		DataAPIURL:  getEnv("POLYMARKET_DATA_URL", "https://data-api.polymarket.com"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		// Scheduler
		StorySchedule: getEnv("STORY_SCHEDULE", "0 9 * * *"),

		Debug: getEnvBool("DEBUG", false),
	}

	return cfg, nil
}

// Validate checks if required configuration is present.
// A missing webhook is not fatal: runs complete but nothing is delivered.
func (c *Config) Validate(logger zerolog.Logger) error {
	if c.DiscordWebhookURL == "" {
		logger.Warn().Msg("DISCORD_WEBHOOK_URL not set, stories will not be delivered to Discord")
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == 0) {
		logger.Warn().Msg("Telegram mirror needs both TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID, mirror disabled")
	}
	return nil
}

// TelegramEnabled reports whether the Telegram mirror is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the process configuration.
type Config struct {
	TelegramToken  string
	GeminiAPIKey   string
	GeminiModel    string
	RequiredChatID int64
	AdminChatID    int64
	BotDBPath      string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// Load .env if present
	_ = godotenv.Load()

	config := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   "gemini-2.0-flash-exp",
		BotDBPath:     "data/bot.db",
	}

	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.GeminiModel = model
	}

	if dbPath := os.Getenv("BOT_DB_PATH"); dbPath != "" {
		config.BotDBPath = dbPath
	}

	if rawChatID := os.Getenv("REQUIRED_CHAT_ID"); rawChatID != "" {
		parsed, err := strconv.ParseInt(rawChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("REQUIRED_CHAT_ID is not a valid chat id: %v", err)
		}
		config.RequiredChatID = parsed
	}

	if rawChatID := os.Getenv("ADMIN_CHAT_ID"); rawChatID != "" {
		parsed, err := strconv.ParseInt(rawChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_CHAT_ID is not a valid chat id: %v", err)
		}
		config.AdminChatID = parsed
	}

	// Validation
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is empty")
	}
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is empty")
	}
	if config.RequiredChatID == 0 {
		return nil, fmt.Errorf("REQUIRED_CHAT_ID environment variable is empty")
	}

	return config, nil
}

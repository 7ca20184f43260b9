package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Chat-completion API. Optional: without a key the assistant runs in
	// instructive demo mode instead of calling the model.
	OpenRouterKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterURL  string `env:"OPENROUTER_API_URL" envDefault:"https://openrouter.ai/api/v1"`
	DefaultModel   string `env:"DEFAULT_MODEL" envDefault:"google/gemini-2.0-flash-exp:free"`
	TranslationURL string `env:"TRANSLATION_API_URL" envDefault:"https://translate.googleapis.com/translate_a/single"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram audit logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicRating    int   `env:"LOG_TOPIC_RATING"`
	LogTopicNewChat   int   `env:"LOG_TOPIC_NEW_CHAT"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// HasCredential reports whether a usable chat-completion key is configured.
func (c *Config) HasCredential() bool {
	return c.OpenRouterKey != ""
}

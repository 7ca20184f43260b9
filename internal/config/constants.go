package config

import "time"

const (
	// Chat history is truncated to this many messages before every flush.
	// Persisted history under a finite store would otherwise grow without
	// bound; the oldest messages are dropped first.
	MaxHistoryMessages = 200

	// Saved chat snapshots kept per chat
	MaxSavedChats = 10

	// Attachment limits
	MaxAttachmentSize = 5 * 1024 * 1024
	MaxAttachments    = 5

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Translation request timeout
	TranslateTimeout = 15 * time.Second

	// Model cache duration
	ModelCacheDuration = 1 * time.Hour

	// Rate limit (messages per minute per chat)
	RateLimitPerMinute = 6

	// Rated message text prefix kept in the ratings log
	RatingTextPrefixLen = 100

	// Default temperature for chat completions
	DefaultTemperature = 0.7

	// Models per page in the admin picker
	ModelsPerPage = 5
)

// Gamification point grants.
const (
	PointsPerQuestion = 5
	PointsPerAnswer   = 2
)

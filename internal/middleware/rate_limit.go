package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type rateWindow struct {
	start time.Time
	count int
}

// limiter counts messages per chat inside a sliding one-minute window.
type limiter struct {
	mu      sync.Mutex
	windows map[int64]*rateWindow
	limit   int
	now     func() time.Time
}

func newLimiter(limit int, now func() time.Time) *limiter {
	if now == nil {
		now = time.Now
	}
	return &limiter{windows: make(map[int64]*rateWindow), limit: limit, now: now}
}

// allow reports whether the chat is still under its per-minute budget
// and counts the attempt.
func (l *limiter) allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[chatID]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.windows[chatID] = &rateWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.limit
}

// RateLimit returns middleware that throttles incoming messages per chat.
// Callback queries pass through untouched.
func RateLimit() bot.Middleware {
	l := newLimiter(config.RateLimitPerMinute, nil)

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !l.allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Слишком много запросов. Подождите немного.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}

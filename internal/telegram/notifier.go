package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/go-telegram/bot"
)

// Notifier mirrors notable events into a Telegram audit group, one
// forum topic per event kind. With no audit chat configured every call
// is a no-op.
type Notifier struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewNotifier(b *bot.Bot, cfg *config.Config) *Notifier {
	return &Notifier{bot: b, cfg: cfg}
}

type eventKind string

const (
	eventError   eventKind = "error"
	eventRating  eventKind = "rating"
	eventNewChat eventKind = "newChat"
)

func (n *Notifier) send(kind eventKind, message string) {
	if n.cfg.LogTelegramChatID == 0 {
		return
	}
	topicID := n.topicID(kind)
	if topicID == 0 {
		return
	}

	if runes := []rune(message); len(runes) > config.MaxTelegramMessageLen {
		message = string(runes[:config.MaxTelegramMessageLen-20]) + "\n\n... (обрезано)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          n.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("audit notification failed", "kind", kind, "error", err)
	}
}

// Error reports a failed operation with its context.
func (n *Notifier) Error(err error, where string) {
	n.send(eventError, fmt.Sprintf("❌ *Ошибка*\n\n*Где:* %s\n*Ошибка:* `%s`\n*Время:* %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

// Rating reports a like or dislike on an assistant reply.
func (n *Notifier) Rating(chatID int64, rating, textPrefix string) {
	n.send(eventRating, fmt.Sprintf("📊 *Оценка ответа*\n\n*Чат:* `%d`\n*Оценка:* %s\n*Фрагмент:* %s",
		chatID, rating, textPrefix))
}

// NewChat reports the first contact from a chat.
func (n *Notifier) NewChat(chatID int64, name, username string) {
	msg := fmt.Sprintf("👋 *Новый чат*\n\n*ID:* `%d`\n*Имя:* %s", chatID, name)
	if username != "" {
		msg += fmt.Sprintf("\n*Username:* @%s", username)
	}
	n.send(eventNewChat, msg)
}

func (n *Notifier) topicID(kind eventKind) int {
	switch kind {
	case eventError:
		return n.cfg.LogTopicError
	case eventRating:
		return n.cfg.LogTopicRating
	case eventNewChat:
		return n.cfg.LogTopicNewChat
	default:
		return 0
	}
}

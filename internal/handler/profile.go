package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/service"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleProfile shows points, level progress, streak and achievements.
func (h *Handler) handleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	rec, err := h.gamification.Load(ctx, chatID)
	if err != nil {
		slog.Error("profile: load", "chat_id", chatID, "error", err)
		return
	}

	current := service.Levels[0]
	for _, l := range service.Levels {
		if l.Level == rec.Level {
			current = l
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s* — уровень %d\n\n", current.Emoji, current.Name, rec.Level)
	fmt.Fprintf(&sb, "✨ Очки: *%d*\n", rec.Points)

	if next, ok := nextLevel(rec.Level); ok {
		fmt.Fprintf(&sb, "📈 До уровня «%s»: %d очков\n", next.Name, next.MinPoints-rec.Points)
	} else {
		sb.WriteString("👑 Максимальный уровень!\n")
	}

	fmt.Fprintf(&sb, "🔥 Серия дней: %d\n", rec.Streak)
	fmt.Fprintf(&sb, "❓ Вопросов задано: %d\n", rec.QuestionsAsked)
	fmt.Fprintf(&sb, "💬 Ответов получено: %d\n", rec.MessagesReceived)

	if id, err := h.sessions.SessionID(ctx, chatID); err == nil {
		fmt.Fprintf(&sb, "🆔 Сессия: `%s`\n", id)
	}
	if tokens, cost, err := h.sessions.Usage(ctx, chatID); err == nil && tokens > 0 {
		fmt.Fprintf(&sb, "🔢 Токенов за сессию: %d (≈$%s)\n", tokens, cost.StringFixed(4))
	}

	fmt.Fprintf(&sb, "\n🏆 *Достижения (%d из %d)*\n\n", len(rec.Achievements), len(service.Achievements))
	for _, a := range service.Achievements {
		mark := "🔒"
		if rec.HasAchievement(a.ID) {
			mark = a.Emoji
		}
		fmt.Fprintf(&sb, "%s %s — %s (+%d)\n", mark, a.Name, a.Description, a.Points)
	}

	if err := tg.SendLongMessage(ctx, b, chatID, sb.String(), nil); err != nil {
		slog.Error("profile: send", "chat_id", chatID, "error", err)
	}
}

func nextLevel(current int) (service.Level, bool) {
	for _, l := range service.Levels {
		if l.Level == current+1 {
			return l, true
		}
	}
	return service.Level{}, false
}

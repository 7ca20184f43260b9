package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleExport sends the conversation as a plain-text document.
func (h *Handler) handleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	history, err := h.sessions.History(ctx, chatID)
	if err != nil {
		slog.Error("export: load history", "chat_id", chatID, "error", err)
		return
	}
	if len(history) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📄 История пуста, экспортировать нечего.",
		})
		return
	}

	transcript := renderTranscript(history)
	filename := fmt.Sprintf("bogdan-chat-%s.txt", time.Now().Format("2006-01-02"))

	if err := tg.SendDocument(ctx, b, chatID, filename, []byte(transcript), "📄 Экспорт переписки"); err != nil {
		slog.Error("export: send document", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось отправить файл.",
		})
	}
}

func renderTranscript(history []domain.Message) string {
	var sb strings.Builder
	for _, m := range history {
		who := "AI"
		if m.Role == domain.RoleUser {
			who = "Вы"
		}
		when := time.UnixMilli(m.Timestamp).Format("02.01.2006 15:04")
		fmt.Fprintf(&sb, "[%s] %s:\n%s\n\n", when, who, m.Content)
		for _, f := range m.Files {
			fmt.Fprintf(&sb, "  📎 %s\n", f.Name)
		}
	}
	return sb.String()
}

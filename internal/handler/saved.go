package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleSave snapshots the current conversation.
func (h *Handler) handleSave(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	snap, err := h.savedChats.Save(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyHistory) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "💾 Пока нечего сохранять: задайте хотя бы один вопрос.",
			})
			return
		}
		slog.Error("save chat", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось сохранить чат.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("💾 Чат сохранён: «%s»\nОткрыть список: /saved", snap.Title),
	})
}

// handleSavedChats lists snapshots with load and delete buttons.
func (h *Handler) handleSavedChats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	chats, err := h.savedChats.List(ctx, chatID)
	if err != nil {
		slog.Error("saved chats: list", "chat_id", chatID, "error", err)
		return
	}
	if len(chats) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💾 Сохранённых чатов нет. Сохраните текущий командой /save.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("💾 *Сохранённые чаты*\n\n")
	var rows [][]models.InlineKeyboardButton
	for i, c := range chats {
		fmt.Fprintf(&sb, "*%d.* %s\n_%s, сообщений: %d_\n\n",
			i+1, c.Title, c.CreatedAt.Format("02.01.2006 15:04"), len(c.Messages))
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(fmt.Sprintf("📂 Открыть №%d", i+1), "chat_load_"+c.ID),
			tg.InlineButton("🗑", "chat_del_"+c.ID),
		))
	}
	tg.SendLongMessage(ctx, b, chatID, sb.String(), tg.InlineKeyboard(rows...))
}

// handleSavedChatLoad swaps the live history for the chosen snapshot.
func (h *Handler) handleSavedChatLoad(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	id := strings.TrimPrefix(update.CallbackQuery.Data, "chat_load_")

	snap, err := h.savedChats.Restore(ctx, chatID, id)
	if err != nil {
		answerCallback(ctx, b, update, "❌ Чат не найден")
		return
	}
	answerCallback(ctx, b, update, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("📂 Чат «%s» восстановлен. Продолжайте с того места, где остановились.", snap.Title),
	})
}

func (h *Handler) handleSavedChatDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	id := strings.TrimPrefix(update.CallbackQuery.Data, "chat_del_")
	if err := h.savedChats.Delete(ctx, chatID, id); err != nil {
		answerCallback(ctx, b, update, "❌ Уже удалён")
		return
	}
	answerCallback(ctx, b, update, "🗑 Чат удалён")
}

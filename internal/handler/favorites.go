package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const favoritePreviewLen = 60

// handleFavorites lists starred replies with per-entry delete buttons.
func (h *Handler) handleFavorites(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	favs, err := h.favorites.List(ctx, chatID)
	if err != nil {
		slog.Error("favorites: list", "chat_id", chatID, "error", err)
		return
	}
	if len(favs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⭐ Избранных ответов пока нет. Нажмите ⭐ под ответом, чтобы сохранить его.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("⭐ *Избранные ответы*\n\n")
	var rows [][]models.InlineKeyboardButton
	for i, f := range favs {
		when := time.UnixMilli(f.Timestamp).Format("02.01.2006")
		text := f.Text
		if runes := []rune(text); len(runes) > favoritePreviewLen {
			text = string(runes[:favoritePreviewLen]) + "…"
		}
		fmt.Fprintf(&sb, "*%d.* _%s_\n%s\n\n", i+1, when, text)
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(fmt.Sprintf("🗑 Удалить №%d", i+1), "fav_del_"+f.ID),
		))
	}
	tg.SendLongMessage(ctx, b, chatID, sb.String(), tg.InlineKeyboard(rows...))
}

// handleFavAdd stars the assistant reply at the history index encoded
// in the callback data.
func (h *Handler) handleFavAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	index, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, "fav_add_"))
	if err != nil {
		answerCallback(ctx, b, update, "")
		return
	}

	history, err := h.sessions.History(ctx, chatID)
	if err != nil || index < 0 || index >= len(history) {
		answerCallback(ctx, b, update, "❌ Сообщение не найдено")
		return
	}

	if _, err := h.favorites.Add(ctx, chatID, history[index].Content); err != nil {
		slog.Error("favorites: add", "chat_id", chatID, "error", err)
		answerCallback(ctx, b, update, "❌ Не удалось сохранить")
		return
	}
	answerCallback(ctx, b, update, "⭐ Добавлено в избранное")
}

func (h *Handler) handleFavRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	id := strings.TrimPrefix(update.CallbackQuery.Data, "fav_del_")
	if err := h.favorites.Remove(ctx, chatID, id); err != nil {
		answerCallback(ctx, b, update, "❌ Уже удалено")
		return
	}
	answerCallback(ctx, b, update, "🗑 Удалено из избранного")
}

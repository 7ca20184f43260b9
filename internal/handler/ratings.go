package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleRate records a 👍/👎 on an assistant reply. Callback data is
// rate_<like|dislike>_<history index>.
func (h *Handler) handleRate(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}

	parts := strings.Split(update.CallbackQuery.Data, "_")
	if len(parts) != 3 {
		answerCallback(ctx, b, update, "")
		return
	}
	rating := parts[1]
	index, err := strconv.Atoi(parts[2])
	if err != nil || (rating != domain.RatingLike && rating != domain.RatingDislike) {
		answerCallback(ctx, b, update, "")
		return
	}

	history, err := h.sessions.History(ctx, chatID)
	if err != nil {
		slog.Error("rate: load history", "chat_id", chatID, "error", err)
		answerCallback(ctx, b, update, "❌ Не удалось сохранить оценку")
		return
	}
	var text string
	if index >= 0 && index < len(history) {
		text = history[index].Content
	}

	entry, err := h.ratings.Rate(ctx, chatID, index, text, rating)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRated) {
			answerCallback(ctx, b, update, "Вы уже оценили этот ответ")
			return
		}
		slog.Error("rate: save", "chat_id", chatID, "error", err)
		answerCallback(ctx, b, update, "❌ Не удалось сохранить оценку")
		return
	}

	emoji := "👍"
	if rating == domain.RatingDislike {
		emoji = "👎"
	}
	h.notifier.Rating(chatID, emoji, entry.MessageText)
	answerCallback(ctx, b, update, "Спасибо за оценку!")
}

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleModels opens the paged model picker. An optional argument
// filters by substring: /model gemini
func (h *Handler) handleModels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	search := ""
	if parts := strings.SplitN(update.Message.Text, " ", 2); len(parts) > 1 {
		search = strings.TrimSpace(parts[1])
	}

	h.sendModelsPage(ctx, b, chatID, 0, search, false, 0)
}

func (h *Handler) sendModelsPage(ctx context.Context, b *bot.Bot, chatID int64, page int, search string, edit bool, messageID int) {
	all, err := h.openRouter.ListModels(ctx)
	if err != nil {
		slog.Error("models: list", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось загрузить список моделей.",
		})
		return
	}

	filtered := all
	if search != "" {
		filtered = nil
		needle := strings.ToLower(search)
		for _, m := range all {
			if strings.Contains(strings.ToLower(m.ID), needle) || strings.Contains(strings.ToLower(m.Name), needle) {
				filtered = append(filtered, m)
			}
		}
	}

	selected, err := h.prefs.SelectedModel(ctx, chatID, h.cfg.DefaultModel)
	if err != nil {
		selected = h.cfg.DefaultModel
	}

	totalPages := int(math.Ceil(float64(len(filtered)) / float64(config.ModelsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * config.ModelsPerPage
	end := start + config.ModelsPerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	pageModels := filtered[start:end]

	var sb strings.Builder
	sb.WriteString("🤖 *Выберите модель:*\n\n")
	var rows [][]models.InlineKeyboardButton
	for _, m := range pageModels {
		mark := ""
		if m.ID == selected {
			mark = " ✅"
		}
		vision := ""
		if m.Vision {
			vision = " 👁"
		}
		sb.WriteString(fmt.Sprintf("*%s*%s%s\n💰 %s | 📝 %dk контекст\n\n",
			m.Name, mark, vision, modelPriceLabel(m), m.ContextLength/1000))

		label := m.Name
		if m.ID == selected {
			label = "✅ " + label
		}
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, "m_"+m.ID)))
	}
	if len(pageModels) == 0 {
		sb.WriteString("Ничего не найдено. Попробуйте другой запрос.")
	}

	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, "mp"))
	}
	keyboard := tg.InlineKeyboard(rows...)

	if edit {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        sb.String(),
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
}

func modelPriceLabel(m domain.AIModel) string {
	if m.IsFree() {
		return "Бесплатно"
	}
	return fmt.Sprintf("$%.2f / $%.2f за 1M токенов", m.PromptPrice, m.CompletionPrice)
}

func (h *Handler) handleModelSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	modelID := strings.TrimPrefix(update.CallbackQuery.Data, "m_")

	model, err := h.openRouter.GetModel(ctx, modelID)
	if err != nil {
		answerCallback(ctx, b, update, "❌ Модель недоступна")
		return
	}
	if err := h.prefs.SetSelectedModel(ctx, chatID, model.ID); err != nil {
		slog.Error("models: select", "chat_id", chatID, "model", modelID, "error", err)
		answerCallback(ctx, b, update, "❌ Не удалось сохранить выбор")
		return
	}
	answerCallback(ctx, b, update, "Модель: "+model.Name)

	msg := update.CallbackQuery.Message.Message
	if msg != nil {
		h.sendModelsPage(ctx, b, chatID, 0, "", true, msg.ID)
	}
}

func (h *Handler) handleModelPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	page, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, "mp_"))
	if err != nil {
		answerCallback(ctx, b, update, "")
		return
	}
	answerCallback(ctx, b, update, "")

	msg := update.CallbackQuery.Message.Message
	if msg != nil {
		h.sendModelsPage(ctx, b, chatID, page, "", true, msg.ID)
	}
}

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) isAdminMessage(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.From != nil &&
		h.cfg.IsAdmin(update.Message.From.ID)
}

// handleStats shows aggregate rating numbers to admins.
func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminMessage(update) {
		return
	}
	chatID := update.Message.Chat.ID

	likes, dislikes, err := h.ratings.Stats(ctx)
	if err != nil {
		slog.Error("stats: ratings", "error", err)
		return
	}
	chats, err := h.sessions.KnownChats(ctx)
	if err != nil {
		slog.Error("stats: chats", "error", err)
		return
	}
	total := likes + dislikes
	approval := 0.0
	if total > 0 {
		approval = float64(likes) / float64(total) * 100
	}

	mode := "✅ API ключ настроен"
	if !h.openRouter.HasCredential() {
		mode = "⚠️ Демо-режим: API ключ не задан"
	}

	text := fmt.Sprintf(
		"📊 *Статистика*\n\n"+
			"💬 Чатов: %d\n"+
			"👍 Лайков: %d\n"+
			"👎 Дизлайков: %d\n"+
			"✅ Доля положительных: %.1f%%\n\n%s",
		chats, likes, dislikes, approval, mode,
	)
	tg.SendLongMessage(ctx, b, chatID, text, nil)
}

// handleSiteConfig edits the shared opaque settings:
//
//	/config                — list values
//	/config set key value  — create or overwrite
//	/config del key        — remove
func (h *Handler) handleSiteConfig(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminMessage(update) {
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	switch {
	case len(args) >= 4 && args[1] == "set":
		key := args[2]
		value := strings.Join(args[3:], " ")
		if err := h.siteConfig.Set(ctx, key, value); err != nil {
			slog.Error("site config: set", "key", key, "error", err)
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Не удалось сохранить значение."})
			return
		}
	case len(args) == 3 && args[1] == "del":
		if err := h.siteConfig.Unset(ctx, args[2]); err != nil {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Такого ключа нет."})
			return
		}
	}

	values, err := h.siteConfig.All(ctx)
	if err != nil {
		slog.Error("site config: list", "error", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("🛠 *Конфигурация*\n\n")
	if len(values) == 0 {
		sb.WriteString("_пусто_\n")
	}
	for k, v := range values {
		fmt.Fprintf(&sb, "`%s` = %s\n", k, v)
	}
	sb.WriteString("\n`/config set ключ значение` | `/config del ключ`")
	tg.SendLongMessage(ctx, b, chatID, sb.String(), nil)
}

// handleButtonsAdmin manages quick-reply buttons:
//
//	/buttons            — list with toggle/delete controls
//	/buttons add 😄 Текст кнопки
func (h *Handler) handleButtonsAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminMessage(update) {
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	if len(args) >= 4 && args[1] == "add" {
		emoji := args[2]
		text := strings.Join(args[3:], " ")
		if _, err := h.quickButtons.Add(ctx, text, emoji); err != nil {
			slog.Error("buttons: add", "error", err)
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Не удалось добавить кнопку."})
			return
		}
	}

	h.sendButtonsList(ctx, b, chatID, false, 0)
}

func (h *Handler) sendButtonsList(ctx context.Context, b *bot.Bot, chatID int64, edit bool, messageID int) {
	all, err := h.quickButtons.All(ctx)
	if err != nil {
		slog.Error("buttons: list", "error", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("🔘 *Быстрые кнопки*\n\n")
	var rows [][]models.InlineKeyboardButton
	for _, qb := range all {
		state := "✅"
		if !qb.Enabled {
			state = "🚫"
		}
		fmt.Fprintf(&sb, "%s %s %s\n", state, qb.Emoji, qb.Text)
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(state+" "+qb.Text, "qbadm_toggle_"+qb.ID),
			tg.InlineButton("🗑", "qbadm_del_"+qb.ID),
		))
	}
	sb.WriteString("\nДобавить: `/buttons add 😄 Текст кнопки`")

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

// handleButtonsAdminAction processes qbadm_toggle_<id> and qbadm_del_<id>.
func (h *Handler) handleButtonsAdminAction(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 || !h.cfg.IsAdmin(update.CallbackQuery.From.ID) {
		answerCallback(ctx, b, update, "")
		return
	}

	data := strings.TrimPrefix(update.CallbackQuery.Data, "qbadm_")
	switch {
	case strings.HasPrefix(data, "toggle_"):
		id := strings.TrimPrefix(data, "toggle_")
		enabled, err := h.quickButtons.Toggle(ctx, id)
		if err != nil {
			answerCallback(ctx, b, update, "❌ Кнопка не найдена")
			return
		}
		if enabled {
			answerCallback(ctx, b, update, "Кнопка включена")
		} else {
			answerCallback(ctx, b, update, "Кнопка выключена")
		}
	case strings.HasPrefix(data, "del_"):
		id := strings.TrimPrefix(data, "del_")
		if err := h.quickButtons.Remove(ctx, id); err != nil {
			answerCallback(ctx, b, update, "❌ Кнопка не найдена")
			return
		}
		answerCallback(ctx, b, update, "🗑 Кнопка удалена")
	default:
		answerCallback(ctx, b, update, "")
		return
	}

	msg := update.CallbackQuery.Message.Message
	if msg != nil {
		h.sendButtonsList(ctx, b, chatID, true, msg.ID)
	}
}

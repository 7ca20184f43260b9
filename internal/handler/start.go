package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	history, err := h.sessions.History(ctx, chatID)
	if err != nil {
		slog.Error("start: load history", "chat_id", chatID, "error", err)
		return
	}

	// first contact: the session hydrates with just the welcome message
	if len(history) == 1 && history[0].Role == domain.RoleAssistant {
		name := update.Message.Chat.FirstName
		username := update.Message.Chat.Username
		h.notifier.NewChat(chatID, name, username)
	}

	welcome := fmt.Sprintf(
		"👋 Привет, *%s*!\n\n"+
			"Я — Богдан, твой AI-ассистент.\n\n"+
			"Просто напиши мне вопрос, или воспользуйся командами:\n"+
			"/model — выбрать AI-модель\n"+
			"/settings — язык, тема и голос\n"+
			"/profile — очки, уровень и достижения\n"+
			"/save — сохранить текущий чат\n"+
			"/saved — сохранённые чаты\n"+
			"/favorites — избранные ответы\n"+
			"/export — выгрузить переписку файлом\n"+
			"/clear — начать заново\n"+
			"/help — подробная справка",
		update.Message.Chat.FirstName,
	)
	if err := tg.SendLongMessage(ctx, b, chatID, welcome, nil); err != nil {
		slog.Error("start: send welcome", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	help := "📖 *Что я умею*\n\n" +
		"💬 Отвечаю на вопросы через выбранную AI-модель.\n" +
		"📎 Принимаю документы и изображения: пришли файл, затем задай вопрос.\n" +
		"🎮 Начисляю очки и достижения за активность (/profile).\n\n" +
		"⚡ *Быстрые команды в тексте:*\n" +
		"• «сколько времени» и «какая дата» — ответ без обращения к AI\n" +
		"• «посчитай 12 * 7» — встроенный калькулятор\n" +
		"• «запомни ...» / «список заметок» / «забудь всё» — заметки на время сессии\n\n" +
		"⚙️ Остальное — в /settings и /model."

	if !h.openRouter.HasCredential() {
		help += "\n\n⚠️ Сейчас я работаю в демо-режиме: ключ OPENROUTER\\_API\\_KEY не настроен."
	}

	if err := tg.SendLongMessage(ctx, b, chatID, help, nil); err != nil {
		slog.Error("help: send", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	keyboard := tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("🗑 Да, очистить", "clear_yes"),
			tg.InlineButton("Отмена", "clear_no"),
		),
	)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Очистить историю чата? Сохранённые чаты и избранное останутся.",
		ReplyMarkup: keyboard,
	})
}

func (h *Handler) handleClearConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	if err := h.sessions.ClearHistory(ctx, chatID); err != nil {
		slog.Error("clear history", "chat_id", chatID, "error", err)
		answerCallback(ctx, b, update, "❌ Не удалось очистить историю")
		return
	}
	answerCallback(ctx, b, update, "История очищена")

	msg := update.CallbackQuery.Message.Message
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      "🗑 История очищена. Начнём заново!",
	})
}

func (h *Handler) handleClearCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	answerCallback(ctx, b, update, "")
	msg := update.CallbackQuery.Message.Message
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      "Продолжаем 👌",
	})
}

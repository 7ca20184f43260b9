package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var colorSchemes = []string{"indigo", "emerald", "rose", "amber", "sky"}

func (h *Handler) handleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	text, keyboard, err := h.settingsView(ctx, chatID)
	if err != nil {
		slog.Error("settings: render", "chat_id", chatID, "error", err)
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
}

// settingsView renders the main settings menu for the chat's current
// preferences.
func (h *Handler) settingsView(ctx context.Context, chatID int64) (string, *models.InlineKeyboardMarkup, error) {
	prefs, err := h.prefs.Load(ctx, chatID)
	if err != nil {
		return "", nil, err
	}

	text := fmt.Sprintf(
		"⚙️ *Настройки*\n\n"+
			"🌍 Язык ответов: %s\n"+
			"🎤 Язык озвучки: %s\n"+
			"🎨 Тема: %s\n"+
			"🌈 Цветовая схема: %s",
		languageLabel(prefs.Language),
		languageLabel(prefs.VoiceLanguage),
		themeLabel(prefs.Theme),
		prefs.ColorScheme,
	)

	themeButton := tg.InlineButton("🌙 Тёмная тема", "theme_"+domain.ThemeDark)
	if prefs.Theme == domain.ThemeDark {
		themeButton = tg.InlineButton("☀️ Светлая тема", "theme_"+domain.ThemeLight)
	}

	var schemeRow []models.InlineKeyboardButton
	for _, s := range colorSchemes {
		label := s
		if s == prefs.ColorScheme {
			label = "• " + s + " •"
		}
		schemeRow = append(schemeRow, tg.InlineButton(label, "scheme_"+s))
	}

	keyboard := tg.InlineKeyboard(
		tg.ButtonRow(tg.InlineButton("🌍 Язык ответов", "settings_lang")),
		tg.ButtonRow(tg.InlineButton("🎤 Язык озвучки", "settings_voice")),
		tg.ButtonRow(themeButton),
		schemeRow,
	)
	return text, keyboard, nil
}

// languageKeyboard lists the supported languages, one per row pair.
func languageKeyboard(callbackPrefix, selected string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, lang := range domain.SupportedLanguages {
		label := fmt.Sprintf("%s %s", lang.Flag, lang.Name)
		if lang.Code == selected {
			label = "✅ " + label
		}
		row = append(row, tg.InlineButton(label, callbackPrefix+lang.Code))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tg.ButtonRow(tg.InlineButton("⬅️ Назад", "settings_back")))
	return tg.InlineKeyboard(rows...)
}

func (h *Handler) handleSettingsLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.showLanguagePicker(ctx, b, update, "lang_", "🌍 Выберите язык ответов:", func(p domain.ChatPrefs) string { return p.Language })
}

func (h *Handler) handleSettingsVoice(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.showLanguagePicker(ctx, b, update, "voice_", "🎤 Выберите язык озвучки:", func(p domain.ChatPrefs) string { return p.VoiceLanguage })
}

func (h *Handler) showLanguagePicker(ctx context.Context, b *bot.Bot, update *models.Update, prefix, title string, selected func(domain.ChatPrefs) string) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	answerCallback(ctx, b, update, "")

	prefs, err := h.prefs.Load(ctx, chatID)
	if err != nil {
		slog.Error("settings: load prefs", "chat_id", chatID, "error", err)
		return
	}

	msg := update.CallbackQuery.Message.Message
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   msg.ID,
		Text:        title,
		ReplyMarkup: languageKeyboard(prefix, selected(prefs)),
	})
}

func (h *Handler) handleSetLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	code := strings.TrimPrefix(update.CallbackQuery.Data, "lang_")

	if _, err := h.prefs.SetLanguage(ctx, chatID, code); err != nil {
		answerCallback(ctx, b, update, "❌ Не удалось сменить язык")
		return
	}
	answerCallback(ctx, b, update, "Язык ответов: "+languageLabel(code))
	h.rerenderSettings(ctx, b, update, chatID)
}

func (h *Handler) handleSetVoiceLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	code := strings.TrimPrefix(update.CallbackQuery.Data, "voice_")

	if _, err := h.prefs.SetVoiceLanguage(ctx, chatID, code); err != nil {
		answerCallback(ctx, b, update, "❌ Не удалось сменить язык озвучки")
		return
	}
	answerCallback(ctx, b, update, "Язык озвучки: "+languageLabel(code))
	h.rerenderSettings(ctx, b, update, chatID)
}

func (h *Handler) handleSetTheme(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	theme := strings.TrimPrefix(update.CallbackQuery.Data, "theme_")
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		answerCallback(ctx, b, update, "")
		return
	}

	if _, err := h.prefs.SetTheme(ctx, chatID, theme); err != nil {
		answerCallback(ctx, b, update, "❌ Не удалось сменить тему")
		return
	}
	answerCallback(ctx, b, update, "Тема: "+themeLabel(theme))
	h.rerenderSettings(ctx, b, update, chatID)
}

func (h *Handler) handleSetColorScheme(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	scheme := strings.TrimPrefix(update.CallbackQuery.Data, "scheme_")

	if _, err := h.prefs.SetColorScheme(ctx, chatID, scheme); err != nil {
		answerCallback(ctx, b, update, "❌ Не удалось сменить схему")
		return
	}
	answerCallback(ctx, b, update, "Схема: "+scheme)
	h.rerenderSettings(ctx, b, update, chatID)
}

func (h *Handler) handleSettingsBack(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	answerCallback(ctx, b, update, "")
	h.rerenderSettings(ctx, b, update, chatID)
}

func (h *Handler) rerenderSettings(ctx context.Context, b *bot.Bot, update *models.Update, chatID int64) {
	text, keyboard, err := h.settingsView(ctx, chatID)
	if err != nil {
		slog.Error("settings: rerender", "chat_id", chatID, "error", err)
		return
	}
	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return
	}
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboard,
	})
}

func languageLabel(code string) string {
	for _, lang := range domain.SupportedLanguages {
		if lang.Code == code {
			return fmt.Sprintf("%s %s", lang.Flag, lang.Name)
		}
	}
	return code
}

func themeLabel(theme string) string {
	if theme == domain.ThemeDark {
		return "🌙 тёмная"
	}
	return "☀️ светлая"
}

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/service"
	tg "github.com/bogdan-labs/bogdanai/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleText is the default handler: free-form questions, documents,
// photos and voice notes all arrive here.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	if msg.Voice != nil {
		h.handleVoice(ctx, b, chatID)
		return
	}
	if msg.Document != nil || len(msg.Photo) > 0 {
		h.handleIncomingFile(ctx, b, msg)
		if strings.TrimSpace(msg.Caption) == "" {
			return
		}
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	h.respond(ctx, b, chatID, text)
}

// respond runs the full question pipeline: one request at a time per
// chat, built-in commands first, then the AI model.
func (h *Handler) respond(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	loading, err := h.sessions.Loading(ctx, chatID)
	if err != nil {
		slog.Error("chat: loading check", "chat_id", chatID, "error", err)
		return
	}
	if loading {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⏳ Дождитесь ответа на предыдущий запрос.",
		})
		return
	}
	h.sessions.SetLoading(ctx, chatID, true)
	defer h.sessions.SetLoading(ctx, chatID, false)

	_, unlocked, err := h.gamification.TrackQuestion(ctx, chatID)
	if err != nil {
		slog.Error("chat: track question", "chat_id", chatID, "error", err)
	}

	// built-in commands answer locally, without the model
	cmd, err := h.sessions.Interpret(ctx, chatID, text)
	if err != nil {
		slog.Error("chat: interpret", "chat_id", chatID, "error", err)
	}
	if cmd.IsCommand {
		if err := h.sessions.Append(ctx, chatID, domain.Message{Role: domain.RoleUser, Content: text}); err != nil {
			h.sendError(ctx, b, chatID, err)
			return
		}
		if err := h.sessions.Append(ctx, chatID, domain.Message{Role: domain.RoleAssistant, Content: cmd.Response}); err != nil {
			h.sendError(ctx, b, chatID, err)
			return
		}
		tg.SendLongMessage(ctx, b, chatID, cmd.Response, nil)
		h.announceAchievements(ctx, b, chatID, unlocked)
		return
	}

	atts, err := h.sessions.TakeAttachments(ctx, chatID)
	if err != nil {
		slog.Error("chat: take attachments", "chat_id", chatID, "error", err)
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: text, Files: atts}
	if err := h.sessions.Append(ctx, chatID, userMsg); err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	history, err := h.sessions.History(ctx, chatID)
	if err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}

	chatMessages := make([]service.ChatMessage, 0, len(history))
	for i, m := range history {
		content := interface{}(m.Content)
		if i == len(history)-1 {
			content = service.ChatContent(service.ComposeMessageText(m.Content, m.Files), m.Files)
		}
		chatMessages = append(chatMessages, service.ChatMessage{Role: m.Role, Content: content})
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	statusMsg, _ := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "⏳ Думаю над ответом...",
	})

	model, err := h.prefs.SelectedModel(ctx, chatID, h.cfg.DefaultModel)
	if err != nil {
		slog.Error("chat: selected model", "chat_id", chatID, "error", err)
		model = h.cfg.DefaultModel
	}

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	temperature := config.DefaultTemperature
	result, err := h.openRouter.Chat(reqCtx, chatMessages, model, &temperature)
	if err != nil {
		slog.Error("chat: completion", "chat_id", chatID, "model", model, "error", err)
		h.notifier.Error(err, fmt.Sprintf("chat completion, модель %s", model))

		errText := "❌ Ошибка при обработке запроса. Попробуйте ещё раз."
		switch {
		case strings.Contains(err.Error(), "401"):
			errText = "❌ Неверный API ключ. Проверьте настройки OPENROUTER_API_KEY."
		case strings.Contains(err.Error(), "402"):
			errText = "❌ Недостаточно кредитов на OpenRouter."
		case strings.Contains(err.Error(), "404"):
			errText = "❌ Модель недоступна. Выберите другую: /model"
		case strings.Contains(err.Error(), "429"):
			errText = "⏳ Слишком много запросов к AI. Попробуйте чуть позже."
		case strings.Contains(err.Error(), "503"):
			errText = "❌ Сервис AI временно недоступен."
		case reqCtx.Err() != nil:
			errText = "⏳ Превышено время ожидания ответа."
		}
		if statusMsg != nil {
			tg.EditLongMessage(ctx, b, chatID, statusMsg.ID, errText, nil)
		}
		return
	}

	reply := domain.Message{Role: domain.RoleAssistant, Content: result.Content}
	if err := h.sessions.Append(ctx, chatID, reply); err != nil {
		h.sendError(ctx, b, chatID, err)
		return
	}
	if _, err := h.gamification.TrackAnswer(ctx, chatID); err != nil {
		slog.Error("chat: track answer", "chat_id", chatID, "error", err)
	}
	if !result.Demo {
		h.sessions.AddUsage(ctx, chatID, result.TotalTokens, result.Cost)
	}

	if statusMsg != nil {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: statusMsg.ID})
	}

	replyIndex := len(history) // index of the appended assistant message
	display := h.localizeReply(ctx, chatID, replyIndex, result.Content)

	keyboard, err := h.replyKeyboard(ctx, replyIndex)
	if err != nil {
		slog.Error("chat: reply keyboard", "chat_id", chatID, "error", err)
	}
	if err := tg.SendLongMessage(ctx, b, chatID, display, keyboard); err != nil {
		slog.Error("chat: send reply", "chat_id", chatID, "error", err)
	}

	h.announceAchievements(ctx, b, chatID, unlocked)
}

// replyKeyboard builds rating, favorite and quick-reply rows for an
// assistant message at the given history index.
func (h *Handler) replyKeyboard(ctx context.Context, index int) (*models.InlineKeyboardMarkup, error) {
	rows := [][]models.InlineKeyboardButton{
		tg.ButtonRow(
			tg.InlineButton("👍", fmt.Sprintf("rate_like_%d", index)),
			tg.InlineButton("👎", fmt.Sprintf("rate_dislike_%d", index)),
			tg.InlineButton("⭐", fmt.Sprintf("fav_add_%d", index)),
		),
	}

	buttons, err := h.quickButtons.Enabled(ctx)
	if err != nil {
		return tg.InlineKeyboard(rows...), err
	}
	for _, qb := range buttons {
		label := strings.TrimSpace(qb.Emoji + " " + qb.Text)
		rows = append(rows, tg.ButtonRow(tg.InlineButton(label, "qb_"+qb.ID)))
	}
	return tg.InlineKeyboard(rows...), nil
}

func (h *Handler) announceAchievements(ctx context.Context, b *bot.Bot, chatID int64, unlocked []service.Achievement) {
	for _, a := range unlocked {
		text := fmt.Sprintf("🏆 *Новое достижение!*\n\n%s *%s*\n%s\n\n+%d очков",
			a.Emoji, a.Name, a.Description, a.Points)
		tg.SendLongMessage(ctx, b, chatID, text, nil)
	}
}

// localizeReply translates an assistant reply into the chat's language
// when it differs from the default. The original stays in history; the
// translation is cached per message index. Translation failures fall
// back to the original text.
func (h *Handler) localizeReply(ctx context.Context, chatID int64, index int, text string) string {
	prefs, err := h.prefs.Load(ctx, chatID)
	if err != nil || prefs.Language == domain.DefaultLanguage {
		return text
	}

	if cached, ok, err := h.sessions.Translation(ctx, chatID, index); err == nil && ok {
		return cached
	}

	gen, err := h.sessions.TranslationGeneration(ctx, chatID)
	if err != nil {
		return text
	}

	trCtx, cancel := context.WithTimeout(ctx, config.TranslateTimeout)
	defer cancel()
	translated, err := h.translator.Translate(trCtx, text, prefs.Language)
	if err != nil {
		slog.Warn("chat: translate reply", "chat_id", chatID, "lang", prefs.Language, "error", err)
		return text
	}
	if err := h.sessions.SetTranslation(ctx, chatID, index, translated, gen); err != nil {
		slog.Warn("chat: cache translation", "chat_id", chatID, "error", err)
	}
	return translated
}

// handleQuickButton treats a quick-reply tap as if the user typed the
// button's text.
func (h *Handler) handleQuickButton(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := callbackChatID(update)
	if chatID == 0 {
		return
	}
	id := strings.TrimPrefix(update.CallbackQuery.Data, "qb_")
	btn, err := h.quickButtons.Get(ctx, id)
	if err != nil {
		answerCallback(ctx, b, update, "Кнопка больше не доступна")
		return
	}
	answerCallback(ctx, b, update, "")
	h.respond(ctx, b, chatID, btn.Text)
}

func (h *Handler) handleVoice(ctx context.Context, b *bot.Bot, chatID int64) {
	if _, err := h.gamification.TrackVoiceUsage(ctx, chatID); err != nil {
		slog.Error("voice: track", "chat_id", chatID, "error", err)
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🎤 Голос получен! Распознавание речи пока не поддерживается, продублируйте вопрос текстом.",
	})
}

// handleIncomingFile downloads a document or photo and attaches it to
// the session for the next question.
func (h *Handler) handleIncomingFile(ctx context.Context, b *bot.Bot, msg *models.Message) {
	chatID := msg.Chat.ID

	var fileID, name string
	switch {
	case msg.Document != nil:
		if msg.Document.FileSize > config.MaxAttachmentSize {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("❌ Файл слишком большой (максимум %d МБ).", config.MaxAttachmentSize/(1024*1024)),
			})
			return
		}
		fileID = msg.Document.FileID
		name = msg.Document.FileName
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1] // highest resolution
		fileID = photo.FileID
		name = "photo.jpg"
	default:
		return
	}

	data, filePath, err := tg.DownloadFile(ctx, b, fileID)
	if err != nil {
		slog.Error("file: download", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось загрузить файл. Попробуйте ещё раз.",
		})
		return
	}
	if name == "" {
		name = filepath.Base(filePath)
	}

	att, err := service.BuildAttachment(name, data)
	if err != nil {
		slog.Error("file: build attachment", "chat_id", chatID, "name", name, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось обработать файл.",
		})
		return
	}
	if err := h.sessions.AttachFile(ctx, chatID, att); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ Нельзя прикрепить больше %d файлов к одному вопросу.", config.MaxAttachments),
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("📎 Файл «%s» прикреплён. Теперь задайте вопрос.", name),
	})
}

func (h *Handler) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	slog.Error("chat pipeline failed", "chat_id", chatID, "error", err)
	h.notifier.Error(err, fmt.Sprintf("чат %d", chatID))
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "❌ Не удалось сохранить сообщение. Попробуйте ещё раз.",
	})
}

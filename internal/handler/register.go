package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register wires every command and callback handler onto the bot.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypePrefix, h.handleProfile)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypePrefix, h.handleSettings)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/model", bot.MatchTypePrefix, h.handleModels)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypePrefix, h.handleExport)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/save", bot.MatchTypePrefix, h.handleSave)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/saved", bot.MatchTypePrefix, h.handleSavedChats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/favorites", bot.MatchTypePrefix, h.handleFavorites)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/buttons", bot.MatchTypePrefix, h.handleButtonsAdmin)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/config", bot.MatchTypePrefix, h.handleSiteConfig)

	// Settings callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "lang_", bot.MatchTypePrefix, h.handleSetLanguage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "voice_", bot.MatchTypePrefix, h.handleSetVoiceLanguage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "theme_", bot.MatchTypePrefix, h.handleSetTheme)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "scheme_", bot.MatchTypePrefix, h.handleSetColorScheme)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "settings_back", bot.MatchTypeExact, h.handleSettingsBack)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "settings_lang", bot.MatchTypeExact, h.handleSettingsLanguage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "settings_voice", bot.MatchTypeExact, h.handleSettingsVoice)

	// Model picker callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "m_", bot.MatchTypePrefix, h.handleModelSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "mp_", bot.MatchTypePrefix, h.handleModelPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "noop", bot.MatchTypeExact, h.handleNoop)

	// Rating callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "rate_", bot.MatchTypePrefix, h.handleRate)

	// Favorite callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "fav_add_", bot.MatchTypePrefix, h.handleFavAdd)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "fav_del_", bot.MatchTypePrefix, h.handleFavRemove)

	// Saved chat callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "chat_load_", bot.MatchTypePrefix, h.handleSavedChatLoad)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "chat_del_", bot.MatchTypePrefix, h.handleSavedChatDelete)

	// Quick-reply button callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "qb_", bot.MatchTypePrefix, h.handleQuickButton)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "qbadm_", bot.MatchTypePrefix, h.handleButtonsAdminAction)

	// Clear confirmation
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "clear_yes", bot.MatchTypeExact, h.handleClearConfirm)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "clear_no", bot.MatchTypeExact, h.handleClearCancel)
}

// handleNoop acknowledges callbacks of non-interactive buttons such as
// the pagination indicator.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

// answerCallback acknowledges a callback query, optionally with a toast.
func answerCallback(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	if update.CallbackQuery == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	})
}

// callbackChatID extracts the chat the callback belongs to.
func callbackChatID(update *models.Update) int64 {
	if update.CallbackQuery == nil || update.CallbackQuery.Message.Message == nil {
		return 0
	}
	return update.CallbackQuery.Message.Message.Chat.ID
}

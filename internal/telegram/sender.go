package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SendLongMessage delivers text of any length, splitting it across
// several Telegram messages. The optional keyboard is attached to the
// last part. Markdown failures fall back to plain text.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard models.ReplyMarkup) error {
	text = FixMarkdown(text)
	parts := SplitMessage(text, config.MaxTelegramMessageLen)

	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if keyboard != nil && i == len(parts)-1 {
			params.ReplyMarkup = keyboard
		}

		if _, err := b.SendMessage(ctx, params); err != nil {
			slog.Warn("markdown send failed, retrying as plain text", "chat_id", chatID, "error", err)
			params.ParseMode = ""
			if _, err := b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

// EditLongMessage rewrites an existing message, truncating text that no
// longer fits a single Telegram message.
func EditLongMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, keyboard models.ReplyMarkup) error {
	text = FixMarkdown(text)
	if runes := []rune(text); len(runes) > config.MaxTelegramMessageLen {
		text = string(runes[:config.MaxTelegramMessageLen-1]) + "…"
	}

	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := b.EditMessageText(ctx, params); err != nil {
		params.ParseMode = ""
		if _, err := b.EditMessageText(ctx, params); err != nil {
			return fmt.Errorf("edit message: %w", err)
		}
	}
	return nil
}

// StartTyping keeps the "typing..." indicator alive until the returned
// cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		for {
			b.SendChatAction(ctx, &bot.SendChatActionParams{
				ChatID: chatID,
				Action: models.ChatActionTyping,
			})
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}

// SendDocument uploads in-memory bytes as a named file.
func SendDocument(ctx context.Context, b *bot.Bot, chatID int64, filename string, data []byte, caption string) error {
	_, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption:  caption,
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

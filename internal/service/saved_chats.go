package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/google/uuid"
)

const savedChatTitleLen = 40

// SavedChatService snapshots and restores chat histories.
type SavedChatService struct {
	store    storage.Store
	sessions *SessionService
	now      Clock
}

func NewSavedChatService(store storage.Store, sessions *SessionService, now Clock) *SavedChatService {
	if now == nil {
		now = time.Now
	}
	return &SavedChatService{store: store, sessions: sessions, now: now}
}

func (s *SavedChatService) List(ctx context.Context, chatID int64) ([]domain.SavedChat, error) {
	raw, ok, err := s.store.Get(ctx, storage.SavedChatsKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load saved chats: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var chats []domain.SavedChat
	if err := json.Unmarshal([]byte(raw), &chats); err != nil {
		return nil, fmt.Errorf("decode saved chats: %w", err)
	}
	return chats, nil
}

// Save snapshots the current history under a title derived from the
// first user message. The newest snapshot goes first and the list is
// capped at MaxSavedChats, dropping the oldest.
func (s *SavedChatService) Save(ctx context.Context, chatID int64) (domain.SavedChat, error) {
	history, err := s.sessions.History(ctx, chatID)
	if err != nil {
		return domain.SavedChat{}, err
	}
	if !hasUserMessage(history) {
		return domain.SavedChat{}, domain.ErrEmptyHistory
	}

	chats, err := s.List(ctx, chatID)
	if err != nil {
		return domain.SavedChat{}, err
	}

	snap := domain.SavedChat{
		ID:        uuid.NewString(),
		Title:     snapshotTitle(history),
		CreatedAt: s.now(),
		Messages:  history,
	}
	chats = append([]domain.SavedChat{snap}, chats...)
	if len(chats) > config.MaxSavedChats {
		chats = chats[:config.MaxSavedChats]
	}
	if err := s.save(ctx, chatID, chats); err != nil {
		return domain.SavedChat{}, err
	}
	return snap, nil
}

// Restore replaces the live history with a snapshot's messages.
func (s *SavedChatService) Restore(ctx context.Context, chatID int64, id string) (domain.SavedChat, error) {
	chats, err := s.List(ctx, chatID)
	if err != nil {
		return domain.SavedChat{}, err
	}
	for _, c := range chats {
		if c.ID == id {
			if err := s.sessions.ReplaceHistory(ctx, chatID, c.Messages); err != nil {
				return domain.SavedChat{}, err
			}
			return c, nil
		}
	}
	return domain.SavedChat{}, domain.ErrSavedChatNotFound
}

func (s *SavedChatService) Delete(ctx context.Context, chatID int64, id string) error {
	chats, err := s.List(ctx, chatID)
	if err != nil {
		return err
	}
	for i, c := range chats {
		if c.ID == id {
			chats = append(chats[:i], chats[i+1:]...)
			return s.save(ctx, chatID, chats)
		}
	}
	return domain.ErrSavedChatNotFound
}

func (s *SavedChatService) save(ctx context.Context, chatID int64, chats []domain.SavedChat) error {
	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("encode saved chats: %w", err)
	}
	if err := s.store.Set(ctx, storage.SavedChatsKey(chatID), string(data)); err != nil {
		return fmt.Errorf("save saved chats: %w", err)
	}
	return nil
}

func hasUserMessage(history []domain.Message) bool {
	for _, m := range history {
		if m.Role == domain.RoleUser {
			return true
		}
	}
	return false
}

func snapshotTitle(history []domain.Message) string {
	for _, m := range history {
		if m.Role != domain.RoleUser {
			continue
		}
		title := m.Content
		if utf8.RuneCountInString(title) > savedChatTitleLen {
			runes := []rune(title)
			title = string(runes[:savedChatTitleLen]) + "…"
		}
		return title
	}
	return "Без названия"
}

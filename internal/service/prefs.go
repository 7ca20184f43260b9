package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
)

// PrefsService persists per-chat interface preferences. Changing the
// reply language drops every cached translation for the chat.
type PrefsService struct {
	store      storage.Store
	sessions   *SessionService
	translator *TranslateService
}

func NewPrefsService(store storage.Store, sessions *SessionService, translator *TranslateService) *PrefsService {
	return &PrefsService{store: store, sessions: sessions, translator: translator}
}

// Load returns the chat's preferences, falling back to the defaults
// when nothing is stored or the stored value is unreadable.
func (s *PrefsService) Load(ctx context.Context, chatID int64) (domain.ChatPrefs, error) {
	raw, ok, err := s.store.Get(ctx, storage.PrefsKey(chatID))
	if err != nil {
		return domain.ChatPrefs{}, fmt.Errorf("load prefs: %w", err)
	}
	if !ok {
		return domain.DefaultPrefs(), nil
	}
	var prefs domain.ChatPrefs
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		slog.Error("malformed prefs, using defaults", "chat_id", chatID, "error", err)
		return domain.DefaultPrefs(), nil
	}
	return prefs, nil
}

func (s *PrefsService) save(ctx context.Context, chatID int64, prefs domain.ChatPrefs) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := s.store.Set(ctx, storage.PrefsKey(chatID), string(data)); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// SetLanguage switches the reply language and invalidates translations
// produced for the previous one.
func (s *PrefsService) SetLanguage(ctx context.Context, chatID int64, code string) (domain.ChatPrefs, error) {
	if !domain.IsSupportedLanguage(code) {
		return domain.ChatPrefs{}, fmt.Errorf("set language %q: %w", code, domain.ErrNotFound)
	}
	prefs, err := s.Load(ctx, chatID)
	if err != nil {
		return domain.ChatPrefs{}, err
	}
	if prefs.Language == code {
		return prefs, nil
	}
	prefs.Language = code
	if err := s.save(ctx, chatID, prefs); err != nil {
		return domain.ChatPrefs{}, err
	}

	s.translator.ClearCache()
	if _, err := s.sessions.InvalidateTranslations(ctx, chatID); err != nil {
		return domain.ChatPrefs{}, err
	}
	return prefs, nil
}

func (s *PrefsService) SetVoiceLanguage(ctx context.Context, chatID int64, code string) (domain.ChatPrefs, error) {
	if !domain.IsSupportedLanguage(code) {
		return domain.ChatPrefs{}, fmt.Errorf("set voice language %q: %w", code, domain.ErrNotFound)
	}
	prefs, err := s.Load(ctx, chatID)
	if err != nil {
		return domain.ChatPrefs{}, err
	}
	prefs.VoiceLanguage = code
	if err := s.save(ctx, chatID, prefs); err != nil {
		return domain.ChatPrefs{}, err
	}
	return prefs, nil
}

func (s *PrefsService) SetTheme(ctx context.Context, chatID int64, theme string) (domain.ChatPrefs, error) {
	prefs, err := s.Load(ctx, chatID)
	if err != nil {
		return domain.ChatPrefs{}, err
	}
	prefs.Theme = theme
	if err := s.save(ctx, chatID, prefs); err != nil {
		return domain.ChatPrefs{}, err
	}
	return prefs, nil
}

// SelectedModel returns the chat's chosen model, or fallback when none
// was ever picked.
func (s *PrefsService) SelectedModel(ctx context.Context, chatID int64, fallback string) (string, error) {
	raw, ok, err := s.store.Get(ctx, storage.SelectedModelKey(chatID))
	if err != nil {
		return "", fmt.Errorf("load selected model: %w", err)
	}
	if !ok || raw == "" {
		return fallback, nil
	}
	return raw, nil
}

func (s *PrefsService) SetSelectedModel(ctx context.Context, chatID int64, modelID string) error {
	if err := s.store.Set(ctx, storage.SelectedModelKey(chatID), modelID); err != nil {
		return fmt.Errorf("save selected model: %w", err)
	}
	return nil
}

func (s *PrefsService) SetColorScheme(ctx context.Context, chatID int64, scheme string) (domain.ChatPrefs, error) {
	prefs, err := s.Load(ctx, chatID)
	if err != nil {
		return domain.ChatPrefs{}, err
	}
	prefs.ColorScheme = scheme
	if err := s.save(ctx, chatID, prefs); err != nil {
		return domain.ChatPrefs{}, err
	}
	return prefs, nil
}

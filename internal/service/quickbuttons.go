package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/google/uuid"
)

func defaultQuickButtons() []domain.QuickButton {
	return []domain.QuickButton{
		{ID: "joke", Text: "Расскажи анекдот", Emoji: "😄", Enabled: true},
		{ID: "fact", Text: "Интересный факт", Emoji: "💡", Enabled: true},
		{ID: "advice", Text: "Дай совет на день", Emoji: "🎯", Enabled: true},
		{ID: "explain", Text: "Объясни простыми словами", Emoji: "📚", Enabled: true},
	}
}

// QuickButtonService manages the admin-curated quick reply buttons
// shown under assistant messages.
type QuickButtonService struct {
	store storage.Store
}

func NewQuickButtonService(store storage.Store) *QuickButtonService {
	return &QuickButtonService{store: store}
}

// All returns every configured button, seeding the defaults on first use.
func (s *QuickButtonService) All(ctx context.Context) ([]domain.QuickButton, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeyQuickButtons)
	if err != nil {
		return nil, fmt.Errorf("load quick buttons: %w", err)
	}
	if !ok {
		defaults := defaultQuickButtons()
		if err := s.save(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}

	var buttons []domain.QuickButton
	if err := json.Unmarshal([]byte(raw), &buttons); err != nil {
		return nil, fmt.Errorf("decode quick buttons: %w", err)
	}
	return buttons, nil
}

// Enabled returns only the buttons visible to users.
func (s *QuickButtonService) Enabled(ctx context.Context) ([]domain.QuickButton, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make([]domain.QuickButton, 0, len(all))
	for _, b := range all {
		if b.Enabled {
			enabled = append(enabled, b)
		}
	}
	return enabled, nil
}

// Get finds one button by ID.
func (s *QuickButtonService) Get(ctx context.Context, id string) (domain.QuickButton, error) {
	all, err := s.All(ctx)
	if err != nil {
		return domain.QuickButton{}, err
	}
	for _, b := range all {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.QuickButton{}, domain.ErrButtonNotFound
}

// Add creates a new enabled button and returns it.
func (s *QuickButtonService) Add(ctx context.Context, text, emoji string) (domain.QuickButton, error) {
	all, err := s.All(ctx)
	if err != nil {
		return domain.QuickButton{}, err
	}
	btn := domain.QuickButton{ID: uuid.NewString(), Text: text, Emoji: emoji, Enabled: true}
	all = append(all, btn)
	if err := s.save(ctx, all); err != nil {
		return domain.QuickButton{}, err
	}
	return btn, nil
}

// Toggle flips a button's visibility and reports the new state.
func (s *QuickButtonService) Toggle(ctx context.Context, id string) (bool, error) {
	all, err := s.All(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].ID == id {
			all[i].Enabled = !all[i].Enabled
			if err := s.save(ctx, all); err != nil {
				return false, err
			}
			return all[i].Enabled, nil
		}
	}
	return false, domain.ErrButtonNotFound
}

// Remove deletes a button permanently.
func (s *QuickButtonService) Remove(ctx context.Context, id string) error {
	all, err := s.All(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			all = append(all[:i], all[i+1:]...)
			return s.save(ctx, all)
		}
	}
	return domain.ErrButtonNotFound
}

func (s *QuickButtonService) save(ctx context.Context, buttons []domain.QuickButton) error {
	data, err := json.Marshal(buttons)
	if err != nil {
		return fmt.Errorf("encode quick buttons: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyQuickButtons, string(data)); err != nil {
		return fmt.Errorf("save quick buttons: %w", err)
	}
	return nil
}

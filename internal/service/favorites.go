package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/google/uuid"
)

// FavoriteService stores starred assistant replies per chat.
type FavoriteService struct {
	store storage.Store
	now   Clock
}

func NewFavoriteService(store storage.Store, now Clock) *FavoriteService {
	if now == nil {
		now = time.Now
	}
	return &FavoriteService{store: store, now: now}
}

func (s *FavoriteService) List(ctx context.Context, chatID int64) ([]domain.Favorite, error) {
	raw, ok, err := s.store.Get(ctx, storage.FavoritesKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var favs []domain.Favorite
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favs, nil
}

// Add stars a reply. Starring the same text twice is a no-op and
// returns the existing entry.
func (s *FavoriteService) Add(ctx context.Context, chatID int64, text string) (domain.Favorite, error) {
	favs, err := s.List(ctx, chatID)
	if err != nil {
		return domain.Favorite{}, err
	}
	for _, f := range favs {
		if f.Text == text {
			return f, nil
		}
	}
	fav := domain.Favorite{ID: uuid.NewString(), Text: text, Timestamp: s.now().UnixMilli()}
	favs = append(favs, fav)
	if err := s.save(ctx, chatID, favs); err != nil {
		return domain.Favorite{}, err
	}
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, chatID int64, id string) error {
	favs, err := s.List(ctx, chatID)
	if err != nil {
		return err
	}
	for i, f := range favs {
		if f.ID == id {
			favs = append(favs[:i], favs[i+1:]...)
			return s.save(ctx, chatID, favs)
		}
	}
	return domain.ErrNotFound
}

func (s *FavoriteService) save(ctx context.Context, chatID int64, favs []domain.Favorite) error {
	data, err := json.Marshal(favs)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.store.Set(ctx, storage.FavoritesKey(chatID), string(data)); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

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
)

// RatingService keeps an append-only log of message ratings.
type RatingService struct {
	store storage.Store
	now   Clock
}

func NewRatingService(store storage.Store, now Clock) *RatingService {
	if now == nil {
		now = time.Now
	}
	return &RatingService{store: store, now: now}
}

// Rate records one rating per message index per chat. A second rating
// of the same message returns ErrAlreadyRated.
func (s *RatingService) Rate(ctx context.Context, chatID int64, messageIndex int, messageText, rating string) (domain.Rating, error) {
	all, err := s.All(ctx)
	if err != nil {
		return domain.Rating{}, err
	}
	for _, r := range all {
		if r.ChatID == chatID && r.MessageIndex == messageIndex {
			return domain.Rating{}, domain.ErrAlreadyRated
		}
	}

	messageText = ratingPrefix(messageText)
	entry := domain.Rating{
		ChatID:       chatID,
		MessageIndex: messageIndex,
		MessageText:  messageText,
		Rating:       rating,
		Timestamp:    s.now().UnixMilli(),
	}
	all = append(all, entry)

	data, err := json.Marshal(all)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("encode ratings: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyRatings, string(data)); err != nil {
		return domain.Rating{}, fmt.Errorf("save ratings: %w", err)
	}
	return entry, nil
}

// ratingPrefix cuts the stored text to RatingTextPrefixLen runes so a
// multi-byte character is never split.
func ratingPrefix(text string) string {
	if utf8.RuneCountInString(text) <= config.RatingTextPrefixLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:config.RatingTextPrefixLen])
}

// All returns every recorded rating, oldest first.
func (s *RatingService) All(ctx context.Context) ([]domain.Rating, error) {
	raw, ok, err := s.store.Get(ctx, storage.KeyRatings)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var all []domain.Rating
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("decode ratings: %w", err)
	}
	return all, nil
}

// Stats counts likes and dislikes across all chats.
func (s *RatingService) Stats(ctx context.Context) (likes, dislikes int, err error) {
	all, err := s.All(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, r := range all {
		switch r.Rating {
		case domain.RatingLike:
			likes++
		case domain.RatingDislike:
			dislikes++
		}
	}
	return likes, dislikes, nil
}

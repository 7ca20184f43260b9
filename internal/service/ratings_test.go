package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestRateOncePerMessage(t *testing.T) {
	ctx := context.Background()
	svc := NewRatingService(storage.NewMemStore(), fixedClock(noon))

	r, err := svc.Rate(ctx, 42, 3, "ответ ассистента", domain.RatingLike)
	require.NoError(t, err)
	require.Equal(t, noon.UnixMilli(), r.Timestamp)

	_, err = svc.Rate(ctx, 42, 3, "ответ ассистента", domain.RatingDislike)
	require.ErrorIs(t, err, domain.ErrAlreadyRated)

	// a different message in the same chat, and the same index in a
	// different chat, are both fine
	_, err = svc.Rate(ctx, 42, 4, "другой ответ", domain.RatingDislike)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, 43, 3, "чужой чат", domain.RatingLike)
	require.NoError(t, err)

	likes, dislikes, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, likes)
	require.Equal(t, 1, dislikes)
}

func TestRateTruncatesLongText(t *testing.T) {
	svc := NewRatingService(storage.NewMemStore(), fixedClock(noon))
	long := strings.Repeat("a", config.RatingTextPrefixLen*2)

	r, err := svc.Rate(context.Background(), 1, 0, long, domain.RatingLike)
	require.NoError(t, err)
	require.Len(t, r.MessageText, config.RatingTextPrefixLen)
}

func TestRateTruncatesByRunes(t *testing.T) {
	svc := NewRatingService(storage.NewMemStore(), fixedClock(noon))
	long := strings.Repeat("привет ", config.RatingTextPrefixLen)

	r, err := svc.Rate(context.Background(), 1, 0, long, domain.RatingLike)
	require.NoError(t, err)
	require.True(t, utf8.ValidString(r.MessageText))
	require.Equal(t, config.RatingTextPrefixLen, utf8.RuneCountInString(r.MessageText))
	require.Equal(t, string([]rune(long)[:config.RatingTextPrefixLen]), r.MessageText)
}

func TestRatingsEmptyByDefault(t *testing.T) {
	svc := NewRatingService(storage.NewMemStore(), nil)
	all, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

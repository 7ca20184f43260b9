package service

import (
	"context"
	"testing"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestFavoritesAddIsDedupedByText(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(storage.NewMemStore(), fixedClock(noon))

	first, err := svc.Add(ctx, 1, "полезный ответ")
	require.NoError(t, err)

	second, err := svc.Add(ctx, 1, "полезный ответ")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	favs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, noon.UnixMilli(), favs[0].Timestamp)
}

func TestFavoritesRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(storage.NewMemStore(), fixedClock(noon))

	fav, err := svc.Add(ctx, 1, "ответ")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, fav.ID))
	require.ErrorIs(t, svc.Remove(ctx, 1, fav.ID), domain.ErrNotFound)

	favs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, favs)
}

func TestFavoritesScopedPerChat(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(storage.NewMemStore(), fixedClock(noon))

	_, err := svc.Add(ctx, 1, "ответ")
	require.NoError(t, err)

	favs, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, favs)
}

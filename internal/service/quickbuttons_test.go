package service

import (
	"context"
	"testing"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestQuickButtonsSeededOnFirstRead(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	svc := NewQuickButtonService(store)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	// seeding must persist so a second read comes from the store
	_, ok, err := store.Get(ctx, storage.KeyQuickButtons)
	require.NoError(t, err)
	require.True(t, ok)

	again, err := svc.All(ctx)
	require.NoError(t, err)
	require.Equal(t, all, again)
}

func TestQuickButtonAddToggleRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewQuickButtonService(storage.NewMemStore())

	btn, err := svc.Add(ctx, "Переведи на английский", "🌍")
	require.NoError(t, err)
	require.True(t, btn.Enabled)
	require.NotEmpty(t, btn.ID)

	enabled, err := svc.Toggle(ctx, btn.ID)
	require.NoError(t, err)
	require.False(t, enabled)

	visible, err := svc.Enabled(ctx)
	require.NoError(t, err)
	for _, b := range visible {
		require.NotEqual(t, btn.ID, b.ID)
	}

	require.NoError(t, svc.Remove(ctx, btn.ID))
	_, err = svc.Get(ctx, btn.ID)
	require.ErrorIs(t, err, domain.ErrButtonNotFound)
}

func TestQuickButtonToggleUnknown(t *testing.T) {
	svc := NewQuickButtonService(storage.NewMemStore())
	_, err := svc.Toggle(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrButtonNotFound)
}

package service

import (
	"context"
	"testing"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestSiteConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewSiteConfigService(storage.NewMemStore())

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, svc.Set(ctx, "greeting", "Добро пожаловать!"))
	require.NoError(t, svc.Set(ctx, "maintenance", "off"))

	v, err := svc.Get(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, "Добро пожаловать!", v)

	require.NoError(t, svc.Unset(ctx, "maintenance"))
	_, err = svc.Get(ctx, "maintenance")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.Unset(ctx, "maintenance"), domain.ErrNotFound)
}

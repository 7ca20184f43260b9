package service

import (
	"context"
	"testing"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/stretchr/testify/require"
)

func prefsFixture(t *testing.T) (*PrefsService, *SessionService) {
	t.Helper()
	store := storage.NewMemStore()
	sessions := NewSessionService(store, fixedClock(noon), true)
	translator := NewTranslateService("http://invalid.local")
	return NewPrefsService(store, sessions, translator), sessions
}

func TestPrefsDefaultsWhenUnset(t *testing.T) {
	svc, _ := prefsFixture(t)

	prefs, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultPrefs(), prefs)
}

func TestPrefsMalformedFallsBackToDefaults(t *testing.T) {
	store := storage.NewMemStore()
	sessions := NewSessionService(store, fixedClock(noon), true)
	svc := NewPrefsService(store, sessions, NewTranslateService("http://invalid.local"))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.PrefsKey(1), "{broken"))

	prefs, err := svc.Load(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultPrefs(), prefs)
}

func TestSetLanguageRejectsUnknownCode(t *testing.T) {
	svc, _ := prefsFixture(t)
	_, err := svc.SetLanguage(context.Background(), 1, "xx")
	require.Error(t, err)
}

func TestSetLanguageInvalidatesTranslations(t *testing.T) {
	ctx := context.Background()
	svc, sessions := prefsFixture(t)

	require.NoError(t, sessions.Append(ctx, 1, domain.Message{Role: domain.RoleAssistant, Content: "hello"}))
	gen, err := sessions.TranslationGeneration(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, sessions.SetTranslation(ctx, 1, 0, "привет", gen))

	prefs, err := svc.SetLanguage(ctx, 1, "en")
	require.NoError(t, err)
	require.Equal(t, "en", prefs.Language)

	_, ok, err := sessions.Translation(ctx, 1, 0)
	require.NoError(t, err)
	require.False(t, ok)

	// persisted across a fresh load
	loaded, err := svc.Load(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "en", loaded.Language)
}

func TestSetThemeAndScheme(t *testing.T) {
	ctx := context.Background()
	svc, _ := prefsFixture(t)

	prefs, err := svc.SetTheme(ctx, 1, domain.ThemeDark)
	require.NoError(t, err)
	require.Equal(t, domain.ThemeDark, prefs.Theme)

	prefs, err = svc.SetColorScheme(ctx, 1, "emerald")
	require.NoError(t, err)
	require.Equal(t, "emerald", prefs.ColorScheme)
}

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
	"github.com/stretchr/testify/require"
)

func savedChatFixture(t *testing.T) (*SavedChatService, *SessionService) {
	t.Helper()
	store := storage.NewMemStore()
	sessions := NewSessionService(store, fixedClock(noon), true)
	return NewSavedChatService(store, sessions, fixedClock(noon)), sessions
}

func TestSaveRequiresUserMessage(t *testing.T) {
	ctx := context.Background()
	svc, _ := savedChatFixture(t)

	// a fresh session contains only the welcome message
	_, err := svc.Save(ctx, 1)
	require.ErrorIs(t, err, domain.ErrEmptyHistory)
}

func TestSaveAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, sessions := savedChatFixture(t)

	require.NoError(t, sessions.Append(ctx, 1, domain.Message{Role: domain.RoleUser, Content: "как дела?"}))
	require.NoError(t, sessions.Append(ctx, 1, domain.Message{Role: domain.RoleAssistant, Content: "отлично"}))

	snap, err := svc.Save(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "как дела?", snap.Title)
	require.Len(t, snap.Messages, 3)

	require.NoError(t, sessions.ClearHistory(ctx, 1))

	restored, err := svc.Restore(ctx, 1, snap.ID)
	require.NoError(t, err)
	require.Equal(t, snap.ID, restored.ID)

	history, err := sessions.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "отлично", history[2].Content)
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	svc, _ := savedChatFixture(t)
	_, err := svc.Restore(context.Background(), 1, "missing")
	require.ErrorIs(t, err, domain.ErrSavedChatNotFound)
}

func TestSavedChatsCappedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, sessions := savedChatFixture(t)

	for i := 0; i < config.MaxSavedChats+2; i++ {
		require.NoError(t, sessions.ClearHistory(ctx, 1))
		msg := fmt.Sprintf("вопрос %d", i)
		require.NoError(t, sessions.Append(ctx, 1, domain.Message{Role: domain.RoleUser, Content: msg}))
		_, err := svc.Save(ctx, 1)
		require.NoError(t, err)
	}

	chats, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chats, config.MaxSavedChats)
	require.Equal(t, fmt.Sprintf("вопрос %d", config.MaxSavedChats+1), chats[0].Title)
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, sessions := savedChatFixture(t)

	require.NoError(t, sessions.Append(ctx, 1, domain.Message{Role: domain.RoleUser, Content: "привет"}))
	snap, err := svc.Save(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, snap.ID))
	require.ErrorIs(t, svc.Delete(ctx, 1, snap.ID), domain.ErrSavedChatNotFound)
}

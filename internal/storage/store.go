package storage

import (
	"context"
	"fmt"
)

// Store is a synchronous string-keyed value store. Features address it with
// disjoint keys; there is no transactional grouping across keys.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys returns all keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Fixed keys of the shared store.
const (
	KeyQuickButtons = "quick_buttons"
	KeyRatings      = "message_ratings"
	KeySiteConfig   = "site_config"
)

func ChatKey(chatID int64, suffix string) string {
	return fmt.Sprintf("chat:%d:%s", chatID, suffix)
}

func HistoryKey(chatID int64) string       { return ChatKey(chatID, "history") }
func GamificationKey(chatID int64) string  { return ChatKey(chatID, "gamification") }
func PrefsKey(chatID int64) string         { return ChatKey(chatID, "prefs") }
func SessionIDKey(chatID int64) string     { return ChatKey(chatID, "session_id") }
func FavoritesKey(chatID int64) string     { return ChatKey(chatID, "favorites") }
func SavedChatsKey(chatID int64) string    { return ChatKey(chatID, "saved_chats") }
func SelectedModelKey(chatID int64) string { return ChatKey(chatID, "model") }

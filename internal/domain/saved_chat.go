package domain

import "time"

// SavedChat is a named snapshot of a chat history, kept independently of the
// live session so the user can restore it later.
type SavedChat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

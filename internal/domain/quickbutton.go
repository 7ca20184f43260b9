package domain

// QuickButton is an administrator-defined canned prompt rendered as a
// one-click shortcut in the chat. The admin surface is the sole writer.
type QuickButton struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Emoji   string `json:"emoji"`
	Enabled bool   `json:"enabled"`
}

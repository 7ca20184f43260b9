package domain

// Favorite is an assistant reply the user starred for later.
type Favorite struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

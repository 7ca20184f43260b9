package domain

const (
	RatingLike    = "like"
	RatingDislike = "dislike"
)

// Rating is one entry of the append-only per-message rating log.
// MessageText keeps only a prefix of the rated reply. Timestamp is
// unix milliseconds, same as Message.Timestamp.
type Rating struct {
	ChatID       int64  `json:"chatId"`
	MessageIndex int    `json:"messageIndex"`
	MessageText  string `json:"messageText"`
	Rating       string `json:"rating"`
	Timestamp    int64  `json:"timestamp"`
}

package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single chat exchange entry. Timestamp is unix milliseconds;
// within a history the sequence order equals send order and timestamps are
// monotonically non-decreasing.
type Message struct {
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Timestamp int64        `json:"timestamp"`
	Files     []Attachment `json:"files,omitempty"`
}

const (
	AttachmentText  = "text"
	AttachmentImage = "image"
)

// Attachment is a pending or sent file. Text attachments carry extracted
// plain text in Content; image attachments carry a base64 data URL.
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
	Kind    string `json:"kind"`
	DataURL string `json:"dataUrl,omitempty"`
}

package domain

// AIModel describes a chat-completion model available through the upstream
// API. Prices are USD per 1M tokens.
type AIModel struct {
	ID              string
	Name            string
	PromptPrice     float64
	CompletionPrice float64
	ContextLength   int
	Vision          bool
}

func (m *AIModel) IsFree() bool {
	return m.PromptPrice == 0 && m.CompletionPrice == 0
}

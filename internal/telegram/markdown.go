package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage cuts text into chunks no longer than maxLen runes,
// preferring to break on a newline in the second half of the chunk.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			parts = append(parts, string(runes))
			break
		}

		cut := maxLen
		if nl := strings.LastIndexByte(string(runes[:maxLen]), '\n'); nl > 0 {
			// nl is a byte offset; recount it in runes
			nlRunes := utf8.RuneCountInString(string(runes[:maxLen])[:nl])
			if nlRunes > maxLen/2 {
				cut = nlRunes + 1
			}
		}

		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}

// FixMarkdown closes dangling code fences and inline code so Telegram
// accepts the message.
func FixMarkdown(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}
	return closeInlineCode(text)
}

func closeInlineCode(text string) string {
	var b strings.Builder
	inFence := false
	inlineOpen := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i] == '`' && runes[i+1] == '`' && runes[i+2] == '`' {
			if inlineOpen {
				b.WriteRune('`')
				inlineOpen = false
			}
			inFence = !inFence
			b.WriteString("```")
			i += 2
			continue
		}
		if !inFence && runes[i] == '`' {
			inlineOpen = !inlineOpen
		}
		b.WriteRune(runes[i])
	}
	if inlineOpen {
		b.WriteRune('`')
	}
	return b.String()
}

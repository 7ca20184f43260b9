package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessageShort(t *testing.T) {
	parts := SplitMessage("привет", 100)
	if len(parts) != 1 || parts[0] != "привет" {
		t.Fatalf("got %v", parts)
	}
}

func TestSplitMessageRespectsRuneLimit(t *testing.T) {
	text := strings.Repeat("ю", 250)
	parts := SplitMessage(text, 100)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	var total int
	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		if n > 100 {
			t.Fatalf("part has %d runes, limit 100", n)
		}
		total += n
	}
	if total != 250 {
		t.Fatalf("lost runes: %d of 250", total)
	}
}

func TestSplitMessagePrefersNewline(t *testing.T) {
	text := strings.Repeat("a", 80) + "\n" + strings.Repeat("b", 80)
	parts := SplitMessage(text, 100)
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	if !strings.HasSuffix(parts[0], "\n") {
		t.Fatalf("first part should end at the newline, got %q", parts[0][len(parts[0])-10:])
	}
	if strings.ContainsRune(parts[1], 'a') {
		t.Fatalf("second part should only contain the b run")
	}
}

func TestFixMarkdownClosesFence(t *testing.T) {
	got := FixMarkdown("```go\nfmt.Println(1)")
	if strings.Count(got, "```")%2 != 0 {
		t.Fatalf("fence not closed: %q", got)
	}
}

func TestFixMarkdownClosesInlineCode(t *testing.T) {
	got := FixMarkdown("используй `fmt.Println")
	if strings.Count(got, "`")%2 != 0 {
		t.Fatalf("inline code not closed: %q", got)
	}
}

func TestFixMarkdownLeavesBalancedAlone(t *testing.T) {
	text := "обычный текст с `кодом` и ```\nблоком\n```"
	if got := FixMarkdown(text); got != text {
		t.Fatalf("balanced text changed: %q", got)
	}
}

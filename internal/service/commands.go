package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type CommandKind string

const (
	KindTime  CommandKind = "time"
	KindDate  CommandKind = "date"
	KindCalc  CommandKind = "calc"
	KindNote  CommandKind = "note"
	KindList  CommandKind = "list"
	KindClear CommandKind = "clear"
)

// CommandResult is the outcome of classifying one free-text input.
type CommandResult struct {
	IsCommand bool
	Response  string
	Kind      CommandKind
}

// Interpreter classifies free-text input into a closed set of local intents
// before it is forwarded to the model. One instance per chat session: notes
// are session-scoped and deliberately not persisted across restarts.
type Interpreter struct {
	now   Clock
	notes []string
}

func NewInterpreter(now Clock) *Interpreter {
	if now == nil {
		now = time.Now
	}
	return &Interpreter{now: now}
}

var arithmeticPattern = regexp.MustCompile(`\d+\s*[+\-*/]\s*\d+`)

// keepArithmetic strips everything outside the evaluator's alphabet.
var keepArithmetic = regexp.MustCompile(`[^\d+\-*/.()\s]`)

var operatorWords = strings.NewReplacer(
	"умножить на", "*",
	"умноженное на", "*",
	"разделить на", "/",
	"делённое на", "/",
	"деленное на", "/",
	"плюс", "+",
	"минус", "-",
)

// Interpret matches text against the intent phrase sets in fixed priority
// order: time, date, arithmetic, remember, list notes, clear notes. The
// first match wins. Unmatched input is not a command.
func (i *Interpreter) Interpret(text string) CommandResult {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if containsAny(lower, "сколько времени", "который час") {
		return CommandResult{
			IsCommand: true,
			Response:  "⏰ Сейчас " + i.now().Format("15:04"),
			Kind:      KindTime,
		}
	}

	if containsAny(lower, "какая дата", "какое число", "сегодня") {
		return CommandResult{
			IsCommand: true,
			Response:  "📅 Сегодня " + formatRussianDate(i.now()),
			Kind:      KindDate,
		}
	}

	if containsAny(lower, "посчитай", "вычисли") || arithmeticPattern.MatchString(lower) {
		expr := strings.NewReplacer("посчитай", "", "вычисли", "").Replace(lower)
		expr = operatorWords.Replace(expr)
		expr = keepArithmetic.ReplaceAllString(expr, "")
		result, err := evalArithmetic(expr)
		if err != nil {
			return CommandResult{}
		}
		return CommandResult{
			IsCommand: true,
			Response:  fmt.Sprintf("🔢 %s = %s", strings.TrimSpace(expr), formatNumber(result)),
			Kind:      KindCalc,
		}
	}

	if idx := strings.Index(lower, "запомни"); idx >= 0 {
		// Offsets in lower line up with trimmed: Cyrillic case folding
		// keeps the UTF-8 byte width.
		note := strings.TrimSpace(trimmed[idx+len("запомни"):])
		if note != "" {
			i.notes = append(i.notes, note)
			return CommandResult{
				IsCommand: true,
				Response:  "💾 Запомнил: " + note,
				Kind:      KindNote,
			}
		}
	}

	if containsAny(lower, "что ты запомнил", "покажи заметки", "список заметок") {
		if len(i.notes) == 0 {
			return CommandResult{
				IsCommand: true,
				Response:  "📝 Заметок пока нет",
				Kind:      KindList,
			}
		}
		var sb strings.Builder
		sb.WriteString("📝 Мои заметки:\n")
		for n, note := range i.notes {
			fmt.Fprintf(&sb, "%d. %s\n", n+1, note)
		}
		return CommandResult{
			IsCommand: true,
			Response:  strings.TrimRight(sb.String(), "\n"),
			Kind:      KindList,
		}
	}

	if containsAny(lower, "очисти заметки", "удали заметки", "забудь всё", "забудь все") {
		count := len(i.notes)
		i.notes = nil
		return CommandResult{
			IsCommand: true,
			Response:  fmt.Sprintf("🗑️ Удалено заметок: %d", count),
			Kind:      KindClear,
		}
	}

	return CommandResult{}
}

// NotesCount reports how many notes this session holds.
func (i *Interpreter) NotesCount() int {
	return len(i.notes)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var ruWeekdays = [...]string{
	"воскресенье", "понедельник", "вторник", "среда", "четверг", "пятница", "суббота",
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

func formatRussianDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d г.",
		ruWeekdays[t.Weekday()], t.Day(), ruMonths[t.Month()-1], t.Year())
}

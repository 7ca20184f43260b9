package service

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

var interpClock = fixedClock(time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC))

func TestInterpretCalc(t *testing.T) {
	i := NewInterpreter(interpClock)

	res := i.Interpret("2+2")
	if !res.IsCommand || res.Kind != KindCalc {
		t.Fatalf("expected calc command, got %+v", res)
	}
	if !strings.Contains(res.Response, "4") {
		t.Fatalf("response %q does not contain 4", res.Response)
	}
}

func TestInterpretCalcCases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"посчитай 2 плюс 3", "5"},
		{"вычисли 10 минус 4", "6"},
		{"посчитай 6 умножить на 7", "42"},
		{"посчитай 10 разделить на 4", "2.5"},
		{"посчитай (2+3)*4", "20"},
		{"100 - 58", "42"},
	}
	for _, c := range cases {
		i := NewInterpreter(interpClock)
		res := i.Interpret(c.in)
		if !res.IsCommand || res.Kind != KindCalc {
			t.Errorf("Interpret(%q): expected calc, got %+v", c.in, res)
			continue
		}
		if !strings.Contains(res.Response, c.want) {
			t.Errorf("Interpret(%q) = %q, want result %s", c.in, res.Response, c.want)
		}
	}
}

func TestInterpretCalcRejectsUnsafeInput(t *testing.T) {
	i := NewInterpreter(interpClock)

	// Division by zero and empty expressions degrade to "not a command",
	// never to a user-visible failure.
	for _, in := range []string{"посчитай 1/0", "посчитай", "вычисли ()"} {
		if res := i.Interpret(in); res.IsCommand {
			t.Errorf("Interpret(%q) must not be a command, got %+v", in, res)
		}
	}
}

func TestInterpretNotACommand(t *testing.T) {
	i := NewInterpreter(interpClock)
	if res := i.Interpret("hello"); res.IsCommand {
		t.Fatalf("plain text classified as command: %+v", res)
	}
}

func TestInterpretTimeAndDate(t *testing.T) {
	i := NewInterpreter(interpClock)

	res := i.Interpret("Сколько времени?")
	if !res.IsCommand || res.Kind != KindTime {
		t.Fatalf("expected time, got %+v", res)
	}
	if !strings.Contains(res.Response, "14:30") {
		t.Fatalf("time response %q", res.Response)
	}

	res = i.Interpret("Какое число сегодня?")
	if !res.IsCommand || res.Kind != KindDate {
		t.Fatalf("expected date, got %+v", res)
	}
	if !strings.Contains(res.Response, "16 июня 2025") {
		t.Fatalf("date response %q", res.Response)
	}
	if !strings.Contains(res.Response, "понедельник") {
		t.Fatalf("date response %q lacks weekday", res.Response)
	}
}

func TestInterpretNotesLifecycle(t *testing.T) {
	i := NewInterpreter(interpClock)

	res := i.Interpret("запомни купить хлеб")
	if !res.IsCommand || res.Kind != KindNote {
		t.Fatalf("expected note, got %+v", res)
	}
	i.Interpret("запомни позвонить маме")
	if i.NotesCount() != 2 {
		t.Fatalf("notes count = %d, want 2", i.NotesCount())
	}

	res = i.Interpret("покажи заметки")
	if !res.IsCommand || res.Kind != KindList {
		t.Fatalf("expected list, got %+v", res)
	}
	if !strings.Contains(res.Response, "1. купить хлеб") || !strings.Contains(res.Response, "2. позвонить маме") {
		t.Fatalf("list response %q", res.Response)
	}

	res = i.Interpret("забудь всё")
	if !res.IsCommand || res.Kind != KindClear {
		t.Fatalf("expected clear, got %+v", res)
	}
	if !strings.Contains(res.Response, "2") {
		t.Fatalf("clear response %q should report 2 removed", res.Response)
	}
	if i.NotesCount() != 0 {
		t.Fatalf("notes not cleared")
	}

	res = i.Interpret("список заметок")
	if !strings.Contains(res.Response, "пока нет") {
		t.Fatalf("empty list response %q", res.Response)
	}
}

func TestInterpretNoteKeepsOriginalText(t *testing.T) {
	cases := []struct {
		in   string
		note string
	}{
		{"  запомни купить хлеб", "купить хлеб"},
		{" Запомни хлеб", "хлеб"},
		{"\tЗАПОМНИ Позвонить Маме", "Позвонить Маме"},
	}
	for _, tc := range cases {
		i := NewInterpreter(interpClock)
		res := i.Interpret(tc.in)
		if !res.IsCommand || res.Kind != KindNote {
			t.Fatalf("Interpret(%q) = %+v, want note", tc.in, res)
		}
		if !utf8.ValidString(res.Response) {
			t.Fatalf("Interpret(%q) response is not valid UTF-8: %q", tc.in, res.Response)
		}
		if want := "💾 Запомнил: " + tc.note; res.Response != want {
			t.Fatalf("Interpret(%q) response = %q, want %q", tc.in, res.Response, want)
		}
	}
}

func TestNotesAreSessionScoped(t *testing.T) {
	a := NewInterpreter(interpClock)
	b := NewInterpreter(interpClock)

	a.Interpret("запомни секрет")
	if b.NotesCount() != 0 {
		t.Fatal("notes leaked between interpreter instances")
	}
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2+2", 4},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-3 + 5", 2},
		{"2 * (3 - (1 + 1))", 2},
	}
	for _, c := range cases {
		got, err := evalArithmetic(c.expr)
		if err != nil {
			t.Errorf("evalArithmetic(%q): %v", c.expr, err)
			continue
		}
		if got != c.want {
			t.Errorf("evalArithmetic(%q) = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestEvalArithmeticRejects(t *testing.T) {
	for _, expr := range []string{"", "2+", "(2", "2 ** 3", "1/0", "abc", "2;2"} {
		if _, err := evalArithmetic(expr); err == nil {
			t.Errorf("evalArithmetic(%q) should fail", expr)
		}
	}
}

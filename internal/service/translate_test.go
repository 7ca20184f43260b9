package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestParseTranslation(t *testing.T) {
	body := `[[["Hello, ","Привет, ",null,null],["world","мир",null,null]],null,"ru"]`
	got, err := parseTranslation([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "Hello, world" {
		t.Fatalf("parsed %q, want %q", got, "Hello, world")
	}
}

func TestParseTranslationRejectsGarbage(t *testing.T) {
	for _, body := range []string{"", "{}", "[]", `["no segments"]`} {
		if _, err := parseTranslation([]byte(body)); err == nil {
			t.Errorf("parseTranslation(%q) should fail", body)
		}
	}
}

func TestTranslateUsesCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode([]interface{}{
			[]interface{}{[]interface{}{"Hello", "Привет"}},
		})
	}))
	defer srv.Close()

	svc := NewTranslateService(srv.URL)
	ctx := context.Background()

	got, err := svc.Translate(ctx, "Привет", "en")
	if err != nil || got != "Hello" {
		t.Fatalf("translate: %q %v", got, err)
	}
	got, err = svc.Translate(ctx, "Привет", "en")
	if err != nil || got != "Hello" {
		t.Fatalf("cached translate: %q %v", got, err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}

	svc.ClearCache()
	svc.Translate(ctx, "Привет", "en")
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("cache not cleared, calls = %d", calls)
	}
}

func TestTranslateSkipsRussianTarget(t *testing.T) {
	svc := NewTranslateService("http://unreachable.invalid")
	got, err := svc.Translate(context.Background(), "Привет", "ru")
	if err != nil || got != "Привет" {
		t.Fatalf("ru target must short-circuit: %q %v", got, err)
	}
}

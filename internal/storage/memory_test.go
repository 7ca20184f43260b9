package storage

import (
	"context"
	"testing"
)

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("get after set: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "a")
	if v != "2" {
		t.Fatalf("expected overwrite to win, got %q", v)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("expected key gone after delete")
	}
}

func TestMemStoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	s.Set(ctx, HistoryKey(1), "[]")
	s.Set(ctx, HistoryKey(2), "[]")
	s.Set(ctx, KeyQuickButtons, "[]")

	keys, err := s.Keys(ctx, "chat:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 chat keys, got %d: %v", len(keys), keys)
	}
}

func TestChatKeysAreDisjointPerChat(t *testing.T) {
	if HistoryKey(1) == HistoryKey(2) {
		t.Fatal("history keys must differ per chat")
	}
	if HistoryKey(1) == GamificationKey(1) {
		t.Fatal("feature keys must be disjoint")
	}
}

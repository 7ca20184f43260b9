package service

import (
	"testing"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/domain"
)

func TestModelCatalogExpires(t *testing.T) {
	now := noon
	clock := func() time.Time { return now }
	cache := newModelCatalog(time.Hour, clock)

	if _, ok := cache.Cached(); ok {
		t.Fatal("empty catalog must miss")
	}

	cache.Store([]domain.AIModel{{ID: "openai/gpt-4o", Name: "GPT-4o"}})
	got, ok := cache.Cached()
	if !ok || len(got) != 1 || got[0].ID != "openai/gpt-4o" {
		t.Fatalf("cached = %v, %v", got, ok)
	}

	now = now.Add(time.Hour + time.Second)
	if _, ok := cache.Cached(); ok {
		t.Fatal("catalog must miss after the window lapses")
	}
}

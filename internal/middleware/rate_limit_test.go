package middleware

import (
	"testing"
	"time"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := newLimiter(3, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !l.allow(1) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.allow(1) {
		t.Fatal("request over the limit should be blocked")
	}
}

func TestLimiterWindowResets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := newLimiter(1, func() time.Time { return now })

	if !l.allow(1) {
		t.Fatal("first request should pass")
	}
	if l.allow(1) {
		t.Fatal("second request in the same window should be blocked")
	}

	now = now.Add(time.Minute)
	if !l.allow(1) {
		t.Fatal("request in a fresh window should pass")
	}
}

func TestLimiterIsPerChat(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	l := newLimiter(1, func() time.Time { return now })

	if !l.allow(1) || !l.allow(2) {
		t.Fatal("each chat has its own window")
	}
}

package service

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Noon keeps tests away from the early_bird/night_owl windows.
var noon = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{149, 2},
		{150, 3},
		{2000, 8},
		{999999, 8},
	}
	for _, c := range cases {
		if got := LevelForPoints(c.points); got != c.want {
			t.Errorf("LevelForPoints(%d) = %d, want %d", c.points, got, c.want)
		}
	}
}

func TestLevelTableStrictlyAscending(t *testing.T) {
	if Levels[0].MinPoints != 0 {
		t.Fatal("tier 1 must start at 0 points")
	}
	for i := 1; i < len(Levels); i++ {
		if Levels[i].MinPoints <= Levels[i-1].MinPoints {
			t.Fatalf("thresholds must be strictly increasing at tier %d", Levels[i].Level)
		}
	}
}

func TestTrackQuestionFreshRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewGamificationService(storage.NewMemStore(), fixedClock(noon))

	rec, unlocked, err := svc.TrackQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("track question: %v", err)
	}
	if rec.Points != 15 {
		t.Fatalf("points = %d, want 15 (5 base + 10 first question)", rec.Points)
	}
	if rec.QuestionsAsked != 1 {
		t.Fatalf("questionsAsked = %d, want 1", rec.QuestionsAsked)
	}
	count := 0
	for _, a := range rec.Achievements {
		if a == "first_question" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("first_question present %d times, want exactly once", count)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "first_question" {
		t.Fatalf("unexpected unlocks: %v", unlocked)
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewGamificationService(storage.NewMemStore(), fixedClock(noon))

	rec1, err := svc.UnlockAchievement(ctx, 1, "x", 10)
	if err != nil {
		t.Fatalf("first unlock: %v", err)
	}
	rec2, err := svc.UnlockAchievement(ctx, 1, "x", 10)
	if err != nil {
		t.Fatalf("second unlock: %v", err)
	}
	if rec1.Points != 10 || rec2.Points != 10 {
		t.Fatalf("points granted more than once: %d then %d", rec1.Points, rec2.Points)
	}
	count := 0
	for _, a := range rec2.Achievements {
		if a == "x" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("achievement recorded %d times, want 1", count)
	}
}

func TestStreakExtendsFromYesterday(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	seed := domain.GamificationRecord{
		Points:       100,
		Level:        2,
		Streak:       2,
		LastActivity: noon.AddDate(0, 0, -1),
		Achievements: []string{"first_question"},
	}
	raw, _ := json.Marshal(seed)
	store.Set(ctx, storage.GamificationKey(1), string(raw))

	svc := NewGamificationService(store, fixedClock(noon))
	rec, _, err := svc.TrackQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("track question: %v", err)
	}
	if rec.Streak != 3 {
		t.Fatalf("streak = %d, want 3", rec.Streak)
	}

	// Same-day repeat leaves the streak unchanged.
	rec, _, err = svc.TrackQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("second track question: %v", err)
	}
	if rec.Streak != 3 {
		t.Fatalf("same-day streak = %d, want 3", rec.Streak)
	}
}

func TestStreakRestartsAfterIdleGap(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	seed := domain.GamificationRecord{
		Streak:       5,
		LastActivity: noon.AddDate(0, 0, -3),
		Achievements: []string{},
	}
	raw, _ := json.Marshal(seed)
	store.Set(ctx, storage.GamificationKey(1), string(raw))

	svc := NewGamificationService(store, fixedClock(noon))

	// The user never returning leaves the stored record untouched: Load
	// does not mutate the streak.
	rec, err := svc.Load(ctx, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Streak != 5 {
		t.Fatalf("load mutated streak to %d", rec.Streak)
	}

	// Asking a question after a 2+ day gap restarts at day one.
	rec, _, err = svc.TrackQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("track question: %v", err)
	}
	if rec.Streak != 1 {
		t.Fatalf("streak after idle gap = %d, want 1", rec.Streak)
	}
}

func TestTimeOfDayAchievements(t *testing.T) {
	ctx := context.Background()

	early := time.Date(2025, 6, 15, 5, 30, 0, 0, time.UTC)
	svc := NewGamificationService(storage.NewMemStore(), fixedClock(early))
	rec, _, err := svc.TrackQuestion(ctx, 1)
	if err != nil {
		t.Fatalf("track question: %v", err)
	}
	if !rec.HasAchievement("early_bird") {
		t.Fatal("expected early_bird before 06:00")
	}

	late := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	svc = NewGamificationService(storage.NewMemStore(), fixedClock(late))
	rec, _, err = svc.TrackQuestion(ctx, 2)
	if err != nil {
		t.Fatalf("track question: %v", err)
	}
	if !rec.HasAchievement("night_owl") {
		t.Fatal("expected night_owl at 23:30")
	}
	if rec.HasAchievement("early_bird") {
		t.Fatal("early_bird must not unlock at 23:30")
	}
}

func TestTrackAnswer(t *testing.T) {
	ctx := context.Background()
	svc := NewGamificationService(storage.NewMemStore(), fixedClock(noon))

	rec, err := svc.TrackAnswer(ctx, 1)
	if err != nil {
		t.Fatalf("track answer: %v", err)
	}
	if rec.Points != 2 || rec.MessagesReceived != 1 {
		t.Fatalf("points=%d received=%d, want 2/1", rec.Points, rec.MessagesReceived)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	rec := domain.NewGamificationRecord()
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back domain.GamificationRecord
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*rec, back) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", *rec, back)
	}
	if back.Achievements == nil {
		t.Fatal("empty achievements must survive as an empty set, not nil")
	}
}

func TestMalformedRecordResets(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	store.Set(ctx, storage.GamificationKey(1), "{not json")

	svc := NewGamificationService(store, fixedClock(noon))
	rec, err := svc.Load(ctx, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Points != 0 || rec.Level != 1 {
		t.Fatalf("expected fresh record, got %+v", rec)
	}
}

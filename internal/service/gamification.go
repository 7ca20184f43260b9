package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/config"
	"github.com/bogdan-labs/bogdanai/internal/domain"
	"github.com/bogdan-labs/bogdanai/internal/storage"
)

// Clock supplies the current time. Injected so day boundaries and
// hour-of-day achievements are deterministic in tests.
type Clock func() time.Time

// Level is one tier of the ascending level table.
type Level struct {
	Level     int
	Name      string
	Emoji     string
	MinPoints int
}

// Levels is the fixed ascending level table. Tier 1 starts at 0.
var Levels = []Level{
	{1, "Новичок", "🌱", 0},
	{2, "Любознательный", "🔍", 50},
	{3, "Исследователь", "🎒", 150},
	{4, "Знаток", "📚", 300},
	{5, "Мастер", "⭐", 500},
	{6, "Эксперт", "🏆", 800},
	{7, "Гуру", "💎", 1200},
	{8, "Легенда", "👑", 2000},
}

// Achievement is a one-time-unlockable milestone with a point reward.
type Achievement struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Points      int
}

var Achievements = []Achievement{
	{"first_question", "Первый вопрос", "🎯", "Задайте первый вопрос", 10},
	{"curious_5", "Любопытный", "🤔", "Задайте 5 вопросов", 20},
	{"active_10", "Активный", "⚡", "Задайте 10 вопросов", 30},
	{"chatter_25", "Болтун", "💬", "Задайте 25 вопросов", 50},
	{"expert_50", "Эксперт общения", "🎓", "Задайте 50 вопросов", 100},
	{"streak_3", "Постоянство", "🔥", "3 дня подряд", 30},
	{"streak_7", "Преданный", "💪", "7 дней подряд", 70},
	{"night_owl", "Ночная сова", "🦉", "Вопрос после полуночи", 15},
	{"early_bird", "Ранняя пташка", "🐦", "Вопрос до 6 утра", 15},
	{"voice_user", "Голосовой ас", "🎤", "Используйте голосовой ввод", 25},
}

// AchievementByID returns the achievement definition, if known.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// LevelForPoints returns the highest level whose threshold does not exceed
// points. Monotonically non-decreasing in points.
func LevelForPoints(points int) int {
	for i := len(Levels) - 1; i >= 0; i-- {
		if points >= Levels[i].MinPoints {
			return Levels[i].Level
		}
	}
	return 1
}

// GamificationService converts tracked user actions into point, level,
// streak and achievement updates. Every mutation is persisted before it is
// returned; persistence failures surface to the caller.
type GamificationService struct {
	store storage.Store
	now   Clock
}

func NewGamificationService(store storage.Store, now Clock) *GamificationService {
	if now == nil {
		now = time.Now
	}
	return &GamificationService{store: store, now: now}
}

// Load hydrates the record for a chat. A malformed stored record is logged
// and discarded; the streak is never mutated at load time — the action-time
// rule in TrackQuestion is the single source of truth for streak resets.
func (s *GamificationService) Load(ctx context.Context, chatID int64) (*domain.GamificationRecord, error) {
	raw, ok, err := s.store.Get(ctx, storage.GamificationKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load gamification: %w", err)
	}
	if !ok {
		return domain.NewGamificationRecord(), nil
	}

	var rec domain.GamificationRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		slog.Error("malformed gamification record, resetting", "chat_id", chatID, "error", err)
		return domain.NewGamificationRecord(), nil
	}
	if rec.Achievements == nil {
		rec.Achievements = []string{}
	}
	return &rec, nil
}

func (s *GamificationService) save(ctx context.Context, chatID int64, rec *domain.GamificationRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal gamification: %w", err)
	}
	if err := s.store.Set(ctx, storage.GamificationKey(chatID), string(raw)); err != nil {
		return fmt.Errorf("save gamification: %w", err)
	}
	return nil
}

// TrackQuestion registers one user question: base points, streak transition,
// milestone and time-of-day achievements, then a final level recompute.
// Returns the updated record and the achievements unlocked by this call.
func (s *GamificationService) TrackQuestion(ctx context.Context, chatID int64) (*domain.GamificationRecord, []Achievement, error) {
	rec, err := s.Load(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	rec.QuestionsAsked++
	rec.Points += config.PointsPerQuestion

	// Streak: same day keeps it, yesterday extends it, any longer gap
	// restarts at 1 because today's question counts as day one.
	if !sameDay(rec.LastActivity, now) {
		if sameDay(rec.LastActivity, now.AddDate(0, 0, -1)) {
			rec.Streak++
		} else {
			rec.Streak = 1
		}
	}
	rec.LastActivity = now

	var unlocked []Achievement
	grant := func(id string) {
		a, ok := AchievementByID(id)
		if !ok || rec.HasAchievement(id) {
			return
		}
		rec.Achievements = append(rec.Achievements, id)
		rec.Points += a.Points
		unlocked = append(unlocked, a)
	}

	switch rec.QuestionsAsked {
	case 1:
		grant("first_question")
	case 5:
		grant("curious_5")
	case 10:
		grant("active_10")
	case 25:
		grant("chatter_25")
	case 50:
		grant("expert_50")
	}

	switch rec.Streak {
	case 3:
		grant("streak_3")
	case 7:
		grant("streak_7")
	}

	hour := now.Hour()
	if hour < 6 {
		grant("early_bird")
	}
	if hour >= 23 || hour < 1 {
		grant("night_owl")
	}

	rec.Level = LevelForPoints(rec.Points)

	if err := s.save(ctx, chatID, rec); err != nil {
		return nil, nil, err
	}
	return rec, unlocked, nil
}

// TrackAnswer registers one received assistant reply.
func (s *GamificationService) TrackAnswer(ctx context.Context, chatID int64) (*domain.GamificationRecord, error) {
	rec, err := s.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	rec.MessagesReceived++
	rec.Points += config.PointsPerAnswer
	rec.Level = LevelForPoints(rec.Points)

	if err := s.save(ctx, chatID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UnlockAchievement grants the achievement and its points exactly once.
func (s *GamificationService) UnlockAchievement(ctx context.Context, chatID int64, id string, points int) (*domain.GamificationRecord, error) {
	rec, err := s.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if rec.HasAchievement(id) {
		return rec, nil
	}

	rec.Achievements = append(rec.Achievements, id)
	rec.Points += points
	rec.Level = LevelForPoints(rec.Points)

	if err := s.save(ctx, chatID, rec); err != nil {
		return nil, err
	}
	slog.Info("achievement unlocked", "chat_id", chatID, "achievement", id, "points", points)
	return rec, nil
}

// AddPoints grants a direct point reward with an optional diagnostic label.
func (s *GamificationService) AddPoints(ctx context.Context, chatID int64, points int, reason string) (*domain.GamificationRecord, error) {
	rec, err := s.Load(ctx, chatID)
	if err != nil {
		return nil, err
	}

	rec.Points += points
	rec.Level = LevelForPoints(rec.Points)

	if reason != "" {
		slog.Info("points granted", "chat_id", chatID, "points", points, "reason", reason)
	}

	if err := s.save(ctx, chatID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// TrackVoiceUsage unlocks the one-time voice achievement.
func (s *GamificationService) TrackVoiceUsage(ctx context.Context, chatID int64) (*domain.GamificationRecord, error) {
	a, _ := AchievementByID("voice_user")
	return s.UnlockAchievement(ctx, chatID, a.ID, a.Points)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

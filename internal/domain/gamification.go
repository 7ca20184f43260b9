package domain

import "time"

// GamificationRecord tracks engagement points for a single chat.
// Achievements only grow; each id is unlocked at most once.
type GamificationRecord struct {
	Points           int       `json:"points"`
	Level            int       `json:"level"`
	QuestionsAsked   int       `json:"questionsAsked"`
	MessagesReceived int       `json:"messagesReceived"`
	Streak           int       `json:"streak"`
	LastActivity     time.Time `json:"lastActivity"`
	Achievements     []string  `json:"achievements"`
}

// NewGamificationRecord returns a zero-valued record. LastActivity stays at
// the zero time until the first tracked question so the first question starts
// the streak at day 1.
func NewGamificationRecord() *GamificationRecord {
	return &GamificationRecord{
		Level:        1,
		Achievements: []string{},
	}
}

func (r *GamificationRecord) HasAchievement(id string) bool {
	for _, a := range r.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

package model

import (
	"time"
)

// LeaderboardEntry is a derived per-challenge ranking record, upserted when
// a participation completes. Rank is not stored; it is computed at read
// time from score descending, earliest completion first.
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	BaseModel
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_leaderboard_challenge_user" json:"challengeId"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_leaderboard_challenge_user" json:"userId"`
	Score       float64   `gorm:"not null" json:"score"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

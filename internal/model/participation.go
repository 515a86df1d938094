package model

import (
	"time"
)

// Participation is a user's enrollment and progress record for one
// challenge. The composite unique index guarantees a user cannot join the
// same challenge twice, even under racing join requests.
// swagger:model Participation
type Participation struct {
	BaseModel
	ChallengeID     uint       `gorm:"not null;uniqueIndex:idx_participation_challenge_user" json:"challengeId"`
	UserID          uint       `gorm:"not null;uniqueIndex:idx_participation_challenge_user" json:"userId"`
	CurrentProgress float64    `gorm:"default:0" json:"currentProgress"`
	Completed       bool       `gorm:"default:false;index" json:"completed"`
	JoinedAt        time.Time  `json:"joinedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func (Participation) TableName() string {
	return "participations"
}

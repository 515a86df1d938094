package model

type NotificationType string

const (
	NotificationChallengeJoined    NotificationType = "challenge_joined"
	NotificationSubmissionVerified NotificationType = "submission_verified"
	NotificationChallengeCompleted NotificationType = "challenge_completed"
)

// Notification is a fire-and-forget message for a user. Writing one must
// never fail the operation that produced it.
// swagger:model Notification
type Notification struct {
	BaseModel
	UserID      uint             `gorm:"not null;index" json:"userId"`
	Type        NotificationType `gorm:"size:50" json:"type"`
	Message     string           `gorm:"size:255" json:"message"`
	ChallengeID *uint            `json:"challengeId,omitempty"`
	Read        bool             `gorm:"default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}

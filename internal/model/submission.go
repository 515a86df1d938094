package model

import (
	"time"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Submission is a proof-of-completion record tied to a participation.
// Status only ever moves pending -> approved or pending -> rejected;
// resubmission after a rejection creates a new row.
// swagger:model Submission
type Submission struct {
	BaseModel
	ChallengeID     uint `gorm:"not null;index" json:"challengeId"`
	ParticipationID uint `gorm:"not null;index" json:"participationId"`
	UserID          uint `gorm:"not null;index" json:"userId"`

	SubmissionText string   `gorm:"type:text" json:"submissionText"`
	PhotoURLs      []string `gorm:"serializer:json" json:"photoUrls"`

	LocationLat     *float64 `json:"locationLat,omitempty"`
	LocationLng     *float64 `json:"locationLng,omitempty"`
	LocationAddress string   `gorm:"size:255" json:"locationAddress,omitempty"`

	VerificationStatus VerificationStatus `gorm:"size:20;default:'pending';index" json:"verificationStatus"`
	VerificationNotes  string             `gorm:"type:text" json:"verificationNotes,omitempty"`
	VerifiedBy         *uint              `json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time         `json:"verifiedAt,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// HasLocation reports whether the submission carries coordinates.
func (s *Submission) HasLocation() bool {
	return s.LocationLat != nil && s.LocationLng != nil
}

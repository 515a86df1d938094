package model

import (
	"time"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title         string     `gorm:"size:200;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	ChallengeType string     `gorm:"size:50;index" json:"challengeType"` // e.g. recycling, energy, transport
	TargetValue   float64    `gorm:"not null" json:"targetValue"`
	PointsReward  int        `gorm:"not null" json:"pointsReward"`
	CreatorID     uint       `gorm:"not null;index" json:"creatorId"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `gorm:"index" json:"endDate,omitempty"`
	IsActive      bool       `gorm:"default:true;index" json:"isActive"`

	RequiresLocationVerification bool `json:"requiresLocationVerification"`
	VerificationPhotosRequired   bool `json:"verificationPhotosRequired"`

	// Optional geofence for location-verified challenges.
	GeofenceLat      *float64 `json:"geofenceLat,omitempty"`
	GeofenceLng      *float64 `json:"geofenceLng,omitempty"`
	GeofenceRadiusKM *float64 `json:"geofenceRadiusKm,omitempty"`
	GeofenceAddress  string   `gorm:"size:255" json:"geofenceAddress,omitempty"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ActiveAt reports whether the challenge accepts joins and submissions at
// the given instant: the active flag is set and the end date, if any, has
// not passed.
func (c *Challenge) ActiveAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.EndDate != nil && !now.Before(*c.EndDate) {
		return false
	}
	return true
}

// HasGeofence reports whether all three geofence fields are present.
func (c *Challenge) HasGeofence() bool {
	return c.GeofenceLat != nil && c.GeofenceLng != nil && c.GeofenceRadiusKM != nil
}

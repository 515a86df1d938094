package model

import (
	"time"
)

type UserRole string

const (
	Student     UserRole = "student"
	Teacher     UserRole = "teacher"
	NGO         UserRole = "ngo"
	Institution UserRole = "institution"
	Admin       UserRole = "admin"
	Other       UserRole = "other"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case Student, Teacher, NGO, Institution, Admin, Other:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;default:'student';index" json:"role"`
	Points    int       `gorm:"default:0" json:"points"` // lifetime reward points from completed challenges
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

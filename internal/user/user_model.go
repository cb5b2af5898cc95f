package user

import (
	"time"

	"gorm.io/gorm"
)

// User is an account in the system. Organizer, coordinator, judge and team
// roles are not global attributes; they are relations on hackathons and
// teams.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
}

// RefreshToken is a long-lived credential exchangeable for a fresh access
// token until it expires or is revoked.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

package models

import "time"

// User holds the login credential. A user is referenced by at most one
// Client or one Employee profile; the portal never exposes users directly.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Active   bool   `gorm:"default:true" json:"active"`

	// InviteToken is set when an employee creates the credential and is
	// cleared once the invitee sets a password.
	InviteToken string `gorm:"size:64;index" json:"-"`
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	DefaultModel
	Email        string `json:"email" gorm:"uniqueIndex:idx_user_email" example:"ana@example.com"`
	PasswordHash string `json:"-"`
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// Session is a signed-in session. Only the SHA-256 of the token is stored.
type Session struct {
	TokenHash string    `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

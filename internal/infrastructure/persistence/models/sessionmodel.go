package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionModel represents the database persistence model for sessions.
type SessionModel struct {
	ID                string `gorm:"primarykey;size:64"`
	UserID            string `gorm:"size:64;not null;index"`
	ProviderSessionID string `gorm:"size:128;index"`
	DeviceType        string `gorm:"size:20"`
	DeviceName        string `gorm:"size:255"`
	OS                string `gorm:"size:64"`
	Browser           string `gorm:"size:64"`
	IPAddress         string `gorm:"size:45"`
	UserAgent         string `gorm:"size:512"`
	Status            string `gorm:"size:20;not null;index"`
	IsTrusted         bool   `gorm:"not null;default:false"`
	Metadata          datatypes.JSON
	Version           uint      `gorm:"not null;default:1"`
	ExpiresAt         time.Time `gorm:"not null;index"`
	LastActivityAt    time.Time `gorm:"not null;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return "user_sessions"
}

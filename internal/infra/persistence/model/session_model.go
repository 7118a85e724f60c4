package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. Only the SHA-256 hash of a bearer token is stored.
type SessionModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uint       `gorm:"not null;index"`
	Name      string     `gorm:"type:varchar(255);not null"`
	TokenHash string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	Abilities []string   `gorm:"type:text;serializer:json;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

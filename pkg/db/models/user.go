package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal profile for an allowlisted identity.
type User struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email           string    `gorm:"column:email;type:text;not null"`
	NormalizedEmail string    `gorm:"column:normalized_email;type:text;not null;uniqueIndex"`
	Name            string    `gorm:"column:name;type:text;not null"`
	ImageURL        *string   `gorm:"column:image_url;type:text"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	LastSeenAt      time.Time `gorm:"column:last_seen_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// CrewEmail is one allowlist entry.
type CrewEmail struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email           string    `gorm:"column:email;type:text;not null"`
	NormalizedEmail string    `gorm:"column:normalized_email;type:text;not null;uniqueIndex"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Notice is a notice board post.
type Notice struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Content         string     `gorm:"column:content;type:text;not null"`
	IsActive        bool       `gorm:"column:is_active;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	CreatedByUserID *uuid.UUID `gorm:"column:created_by_user_id;type:uuid"`
	CreatedByName   string     `gorm:"column:created_by_name;type:text;not null"`
	CreatedByEmail  string     `gorm:"column:created_by_email;type:text;not null"`
}

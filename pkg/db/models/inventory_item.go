package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a shared crew item with last-editor metadata.
// LocationID is a weak reference; it may point at an inactive location.
type InventoryItem struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name            string     `gorm:"column:name;type:text;not null"`
	Qty             int        `gorm:"column:qty;type:bigint;not null;check:inventory_items_qty_check,qty >= 0"`
	LocationID      *uuid.UUID `gorm:"column:location_id;type:uuid"`
	IsActive        bool       `gorm:"column:is_active;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	UpdatedByUserID *uuid.UUID `gorm:"column:updated_by_user_id;type:uuid"`
	UpdatedByName   string     `gorm:"column:updated_by_name;type:text;not null"`
	UpdatedByEmail  string     `gorm:"column:updated_by_email;type:text;not null"`
}

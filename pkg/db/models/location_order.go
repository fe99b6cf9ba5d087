package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationOrder is a user's display rank for one location. A missing row
// means the location is unordered for that user.
type LocationOrder struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_location_orders_user_location"`
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;not null;uniqueIndex:idx_location_orders_user_location"`
	SortOrder  int       `gorm:"column:sort_order;type:bigint;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

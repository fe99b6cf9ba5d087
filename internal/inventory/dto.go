package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// ItemDTO is the transport shape of an inventory item.
type ItemDTO struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Qty             int        `json:"qty"`
	LocationID      *uuid.UUID `json:"location_id"`
	UpdatedAt       time.Time  `json:"updated_at"`
	UpdatedByUserID *uuid.UUID `json:"updated_by_user_id,omitempty"`
	UpdatedByName   string     `json:"updated_by_name"`
	UpdatedByEmail  string     `json:"updated_by_email"`
}

// GroupDTO is one location bucket of the grouped listing; Location is nil
// for the "No location" bucket.
type GroupDTO struct {
	Location *locations.LocationDTO `json:"location"`
	Order    *int                   `json:"order"`
	Items    []ItemDTO              `json:"items"`
}

// ListResult is the grouped inventory for one user.
type ListResult struct {
	Groups     []GroupDTO `json:"groups"`
	TotalCount int        `json:"total_count"`
}

func FromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:              item.ID,
		Name:            item.Name,
		Qty:             item.Qty,
		LocationID:      item.LocationID,
		UpdatedAt:       item.UpdatedAt,
		UpdatedByUserID: item.UpdatedByUserID,
		UpdatedByName:   item.UpdatedByName,
		UpdatedByEmail:  item.UpdatedByEmail,
	}
}

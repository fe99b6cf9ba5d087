package locations

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// LocationDTO is the transport shape of a location.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(l *models.Location) *LocationDTO {
	if l == nil {
		return nil
	}
	return &LocationDTO{
		ID:        l.ID,
		Name:      l.Name,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
	}
}

func FromModels(rows []models.Location) []LocationDTO {
	out := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

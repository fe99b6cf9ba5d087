package inventory

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
)

// LocationMode selects which items a listing keeps by location.
type LocationMode string

const (
	LocationAll  LocationMode = "all"
	LocationNone LocationMode = "none"
	LocationOne  LocationMode = "one"
)

// LocationFilter narrows a listing to unassigned items or one location.
type LocationFilter struct {
	Mode LocationMode
	ID   uuid.UUID
}

// Filter narrows the active item listing.
type Filter struct {
	Search   string
	Location LocationFilter
}

// ParseLocationFilter accepts "", "all", "none" or a location uuid.
func ParseLocationFilter(raw string) (LocationFilter, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", string(LocationAll):
		return LocationFilter{Mode: LocationAll}, nil
	case string(LocationNone):
		return LocationFilter{Mode: LocationNone}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return LocationFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location filter").
			WithDetails(map[string]string{"location": "must be all, none or a location id"})
	}
	return LocationFilter{Mode: LocationOne, ID: id}, nil
}

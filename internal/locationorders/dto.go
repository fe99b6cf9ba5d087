package locationorders

import (
	"github.com/angelmondragon/crewstock-backend/internal/locations"
)

// LocationWithOrder pairs an active location with the caller's order, nil when unordered.
type LocationWithOrder struct {
	Location locations.LocationDTO `json:"location"`
	Order    *int                  `json:"order"`
}

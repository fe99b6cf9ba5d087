package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// UserDTO is the transport shape of a crew member profile.
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Profile is what the identity provider asserts about a caller.
type Profile struct {
	Email    string
	Name     string
	ImageURL *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		ImageURL:   u.ImageURL,
		CreatedAt:  u.CreatedAt,
		LastSeenAt: u.LastSeenAt,
	}
}

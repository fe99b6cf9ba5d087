package notices

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// NoticeDTO is a notice as seen by one caller.
type NoticeDTO struct {
	ID              uuid.UUID  `json:"id"`
	Content         string     `json:"content"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CreatedByUserID *uuid.UUID `json:"created_by_user_id,omitempty"`
	CreatedByName   string     `json:"created_by_name"`
	CreatedByEmail  string     `json:"created_by_email"`
	CanEdit         bool       `json:"can_edit"`
}

func fromModel(n *models.Notice, viewer uuid.UUID, names map[string]string) NoticeDTO {
	dto := NoticeDTO{
		ID:              n.ID,
		Content:         n.Content,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
		CreatedByUserID: n.CreatedByUserID,
		CreatedByName:   n.CreatedByName,
		CreatedByEmail:  n.CreatedByEmail,
	}
	dto.CreatedByName = users.DisplayName(names, n.CreatedByEmail, n.CreatedByName)
	dto.CanEdit = ownedBy(n, viewer)
	return dto
}

func ownedBy(n *models.Notice, userID uuid.UUID) bool {
	return userID != uuid.Nil && n.CreatedByUserID != nil && *n.CreatedByUserID == userID
}

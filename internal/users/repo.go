package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/repo"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByNormalizedEmail(ctx context.Context, normalized string) (*models.User, error)
	FindByNormalizedEmails(ctx context.Context, normalized []string) ([]models.User, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time, imageURL *string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// FindByID loads a user by their UUID.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByNormalizedEmail(ctx context.Context, normalized string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("normalized_email = ?", normalized).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByNormalizedEmails(ctx context.Context, normalized []string) ([]models.User, error) {
	if len(normalized) == 0 {
		return nil, nil
	}
	var rows []models.User
	err := r.DB(ctx).Where("normalized_email IN ?", normalized).Find(&rows).Error
	return rows, err
}

// Touch refreshes last_seen_at and, when given, the avatar url.
func (r *repository) Touch(ctx context.Context, id uuid.UUID, at time.Time, imageURL *string) error {
	updates := map[string]any{"last_seen_at": at}
	if imageURL != nil {
		updates["image_url"] = *imageURL
	}
	return r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	result := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Update("name", name)
	return result.RowsAffected, result.Error
}

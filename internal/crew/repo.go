package crew

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/repo"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the crew allowlist.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.CrewEmail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CrewEmail, error)
	FindByNormalizedEmail(ctx context.Context, normalized string) (*models.CrewEmail, error)
	Create(ctx context.Context, entry *models.CrewEmail) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	repo.Base
}

// NewRepository returns an allowlist repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) List(ctx context.Context) ([]models.CrewEmail, error) {
	var rows []models.CrewEmail
	err := r.DB(ctx).Order("normalized_email ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CrewEmail, error) {
	var entry models.CrewEmail
	if err := r.DB(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindByNormalizedEmail(ctx context.Context, normalized string) (*models.CrewEmail, error) {
	var entry models.CrewEmail
	if err := r.DB(ctx).Where("normalized_email = ?", normalized).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Create(ctx context.Context, entry *models.CrewEmail) error {
	return r.DB(ctx).Create(entry).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.CrewEmail{}).Error
}

package locations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/repo"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// Repository exposes persistence helpers for locations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.Location, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
	Create(ctx context.Context, location *models.Location) error
	UpdateName(ctx context.Context, id uuid.UUID, name string, now time.Time) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a locations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) ListActive(ctx context.Context) ([]models.Location, error) {
	var rows []models.Location
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("LOWER(name) ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads a location regardless of its active flag.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := r.DB(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// ExistingIDs returns the subset of ids that have a row, active or not.
func (r *repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uuid.UUID
	if err := r.DB(ctx).Model(&models.Location{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = struct{}{}
	}
	return found, nil
}

func (r *repository) Create(ctx context.Context, location *models.Location) error {
	return r.DB(ctx).Create(location).Error
}

func (r *repository) UpdateName(ctx context.Context, id uuid.UUID, name string, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Location{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"name": name, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Deactivate flips is_active off for an active row; inactive rows are left alone.
func (r *repository) Deactivate(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Location{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return result.RowsAffected, result.Error
}

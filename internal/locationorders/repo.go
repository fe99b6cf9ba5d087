package locationorders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/crewstock-backend/internal/repo"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
)

// Repository exposes persistence helpers for per-user location orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, userID, locationID uuid.UUID, order int, now time.Time) (uuid.UUID, error)
	Delete(ctx context.Context, userID, locationID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LocationOrder, error)
	DeleteForInactiveLocations(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a location orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

// Upsert writes the order for (userID, locationID) and returns the row id,
// which is stable across repeated calls.
func (r *repository) Upsert(ctx context.Context, userID, locationID uuid.UUID, order int, now time.Time) (uuid.UUID, error) {
	row := models.LocationOrder{
		UserID:     userID,
		LocationID: locationID,
		SortOrder:  order,
		UpdatedAt:  now,
	}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "location_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sort_order", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return uuid.Nil, err
	}

	var stored models.LocationOrder
	if err := r.DB(ctx).
		Select("id").
		Where("user_id = ? AND location_id = ?", userID, locationID).
		First(&stored).Error; err != nil {
		return uuid.Nil, err
	}
	return stored.ID, nil
}

func (r *repository) Delete(ctx context.Context, userID, locationID uuid.UUID) error {
	return r.DB(ctx).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		Delete(&models.LocationOrder{}).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LocationOrder, error) {
	var rows []models.LocationOrder
	err := r.DB(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

// DeleteForInactiveLocations hard-deletes order rows whose location is soft-deleted.
func (r *repository) DeleteForInactiveLocations(ctx context.Context) (int64, error) {
	inactive := r.DB(ctx).Model(&models.Location{}).Select("id").Where("is_active = ?", false)
	result := r.DB(ctx).Where("location_id IN (?)", inactive).Delete(&models.LocationOrder{})
	return result.RowsAffected, result.Error
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/repo"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

// Stamp is the last-editor metadata written with every change.
type Stamp struct {
	UserID uuid.UUID
	Name   string
	Email  string
	At     time.Time
}

func (s Stamp) columns() map[string]any {
	return map[string]any{
		"updated_at":         s.At,
		"updated_by_user_id": s.UserID,
		"updated_by_name":    s.Name,
		"updated_by_email":   s.Email,
	}
}

// Repository exposes persistence helpers for inventory items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context, filter Filter) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	UpdateActive(ctx context.Context, id uuid.UUID, fields map[string]any, stamp Stamp) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID, stamp Stamp) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) ListActive(ctx context.Context, filter Filter) ([]models.InventoryItem, error) {
	query := r.DB(ctx).Where("is_active = ?", true)
	switch filter.Location.Mode {
	case LocationNone:
		query = query.Where("location_id IS NULL")
	case LocationOne:
		query = query.Where("location_id = ?", filter.Location.ID)
	}

	var rows []models.InventoryItem
	if err := query.Order("LOWER(name) ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	matcher := types.NewTextMatcher(filter.Search)
	if matcher.Empty() {
		return rows, nil
	}
	matched := rows[:0]
	for _, row := range rows {
		if matcher.Match(row.Name) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

// FindByID loads an item regardless of its active flag.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.DB(ctx).Create(item).Error
}

// UpdateActive applies fields plus the editor stamp to an active item.
func (r *repository) UpdateActive(ctx context.Context, id uuid.UUID, fields map[string]any, stamp Stamp) (int64, error) {
	updates := stamp.columns()
	for k, v := range fields {
		updates[k] = v
	}
	result := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID, stamp Stamp) (int64, error) {
	return r.UpdateActive(ctx, id, map[string]any{"is_active": false}, stamp)
}

package notices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/repo"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

// Repository exposes persistence helpers for notices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context, search string) ([]models.Notice, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string, now time.Time) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a notices repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Bind(tx)}
}

// ListActive returns active notices newest first, optionally filtered by a
// case-insensitive substring of the content.
func (r *repository) ListActive(ctx context.Context, search string) ([]models.Notice, error) {
	var rows []models.Notice
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	matcher := types.NewTextMatcher(search)
	if matcher.Empty() {
		return rows, nil
	}
	matched := rows[:0]
	for _, row := range rows {
		if matcher.Match(row.Content) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	var notice models.Notice
	if err := r.DB(ctx).First(&notice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *repository) Create(ctx context.Context, notice *models.Notice) error {
	return r.DB(ctx).Create(notice).Error
}

func (r *repository) UpdateContent(ctx context.Context, id uuid.UUID, content string, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Notice{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"content": content, "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Notice{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return result.RowsAffected, result.Error
}

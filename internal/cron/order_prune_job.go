package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/metrics"
)

const orderPruneJobName = "location-order-prune"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderPruneRepo interface {
	WithTx(tx *gorm.DB) locationorders.Repository
}

// OrderPruneJobParams wires the order prune job.
type OrderPruneJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository orderPruneRepo
	Metrics    *metrics.CronJobMetrics
}

// NewOrderPruneJob removes per-user order rows that point at soft-deleted
// locations. Those rows never surface in listings.
func NewOrderPruneJob(params OrderPruneJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("location orders repository required")
	}
	return &orderPruneJob{
		logg:    params.Logger,
		db:      params.DB,
		repo:    params.Repository,
		metrics: params.Metrics,
	}, nil
}

type orderPruneJob struct {
	logg    *logger.Logger
	db      txRunner
	repo    orderPruneRepo
	metrics *metrics.CronJobMetrics
}

func (j *orderPruneJob) Name() string { return orderPruneJobName }

func (j *orderPruneJob) Run(ctx context.Context) error {
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.WithTx(tx).DeleteForInactiveLocations(ctx)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("location order prune: %w", err)
	}
	j.metrics.AddAffected(orderPruneJobName, deleted)
	j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "location order prune complete")
	return nil
}

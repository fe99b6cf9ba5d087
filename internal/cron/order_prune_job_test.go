package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/pkg/db/dbtest"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	"github.com/angelmondragon/crewstock-backend/pkg/metrics"
)

func TestOrderPruneJobDeletesRowsForInactiveLocations(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	conn := client.DB()
	locRepo := locations.NewRepository(conn)
	orderRepo := locationorders.NewRepository(conn)

	live := models.Location{Name: "live", IsActive: true}
	gone := models.Location{Name: "gone", IsActive: true}
	for _, loc := range []*models.Location{&live, &gone} {
		if err := locRepo.Create(ctx, loc); err != nil {
			t.Fatalf("create location: %v", err)
		}
	}
	user := models.User{Email: "a@crew.test", NormalizedEmail: "a@crew.test", Name: "A", LastSeenAt: time.Now()}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i, loc := range []models.Location{live, gone} {
		if _, err := orderRepo.Upsert(ctx, user.ID, loc.ID, i, time.Now()); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if _, err := locRepo.Deactivate(ctx, gone.ID, time.Now()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	reg := prometheus.NewRegistry()
	cronMetrics := metrics.NewCronJobMetrics(reg)
	job, err := NewOrderPruneJob(OrderPruneJobParams{
		Logger:     newTestLogger(),
		DB:         client,
		Repository: orderRepo,
		Metrics:    cronMetrics,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != "location-order-prune" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	rows, err := orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].LocationID != live.ID {
		t.Fatalf("expected only the live location order to remain, got %+v", rows)
	}
	if got := affectedRows(t, reg); got != 1 {
		t.Fatalf("expected 1 affected row recorded, got %f", got)
	}
}

func affectedRows(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "crewstock_job_rows_affected_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			return m.GetCounter().GetValue()
		}
	}
	t.Fatal("affected metric not found")
	return 0
}

type failingPruneRepo struct {
	locationorders.Repository
}

func (f failingPruneRepo) WithTx(*gorm.DB) locationorders.Repository { return f }

func (failingPruneRepo) DeleteForInactiveLocations(context.Context) (int64, error) {
	return 0, errors.New("boom")
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func TestOrderPruneJobPropagatesErrors(t *testing.T) {
	job, err := NewOrderPruneJob(OrderPruneJobParams{
		Logger:     newTestLogger(),
		DB:         fakeTxRunner{},
		Repository: failingPruneRepo{},
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewOrderPruneJobValidates(t *testing.T) {
	if _, err := NewOrderPruneJob(OrderPruneJobParams{}); err == nil {
		t.Fatal("expected logger error")
	}
	if _, err := NewOrderPruneJob(OrderPruneJobParams{Logger: newTestLogger()}); err == nil {
		t.Fatal("expected db error")
	}
	if _, err := NewOrderPruneJob(OrderPruneJobParams{Logger: newTestLogger(), DB: fakeTxRunner{}}); err == nil {
		t.Fatal("expected repository error")
	}
}

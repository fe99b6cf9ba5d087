package locations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/pkg/db"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
)

// Service defines the location registry operations.
type Service interface {
	ListActive(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Create(ctx context.Context, name string) (*models.Location, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Location, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires location dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "locations repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Location, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return rows, nil
}

// Get returns an active location or NotFound.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	if !location.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return location, nil
}

func (s *service) Create(ctx context.Context, name string) (*models.Location, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	location := &models.Location{Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return location, nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Location, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.UpdateName(ctx, id, name, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename location")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return s.Get(ctx, id)
}

// Remove soft-deletes a location. Removing an already inactive location is a no-op.
func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Deactivate(ctx, id, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove location")
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "location name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	return name, nil
}

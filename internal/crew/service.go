package crew

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/pkg/db"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

// Checker answers whether an email may use the app.
type Checker interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
}

// Service manages the crew allowlist.
type Service interface {
	Checker
	List(ctx context.Context) ([]models.CrewEmail, error)
	Add(ctx context.Context, email string) (*models.CrewEmail, bool, error)
	Remove(ctx context.Context, id uuid.UUID) (*models.CrewEmail, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires allowlist dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "crew repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) IsAllowed(ctx context.Context, email string) (bool, error) {
	normalized := types.NormalizeEmail(email)
	if normalized == "" {
		return false, nil
	}
	if _, err := s.repo.FindByNormalizedEmail(ctx, normalized); err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check allowlist")
	}
	return true, nil
}

func (s *service) List(ctx context.Context) ([]models.CrewEmail, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list allowlist")
	}
	return rows, nil
}

// Add allowlists email. When it is already present the existing entry is
// returned and created is false.
func (s *service) Add(ctx context.Context, email string) (*models.CrewEmail, bool, error) {
	normalized := types.NormalizeEmail(email)
	if normalized == "" || !strings.Contains(normalized, "@") {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "valid email required").
			WithDetails(map[string]string{"email": "must be a valid email"})
	}

	existing, err := s.repo.FindByNormalizedEmail(ctx, normalized)
	if err == nil {
		return existing, false, nil
	}
	if !db.IsNotFound(err) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check allowlist")
	}

	entry := &models.CrewEmail{
		Email:           strings.TrimSpace(email),
		NormalizedEmail: normalized,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if db.IsUniqueViolation(err, "") {
			if again, findErr := s.repo.FindByNormalizedEmail(ctx, normalized); findErr == nil {
				return again, false, nil
			}
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add allowlist entry")
	}
	return entry, true, nil
}

// Remove deletes an entry and returns it; removing an unknown id returns nil.
func (s *service) Remove(ctx context.Context, id uuid.UUID) (*models.CrewEmail, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load allowlist entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove allowlist entry")
	}
	return entry, nil
}

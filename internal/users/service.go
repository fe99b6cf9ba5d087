package users

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

// Service manages crew member profiles.
type Service interface {
	GetOrCreate(ctx context.Context, profile Profile) (*models.User, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateName(ctx context.Context, userID uuid.UUID, name string) (*models.User, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires user dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

// GetOrCreate returns the profile for an allowlisted email, creating it on
// first sight. Existing profiles keep their stored name so edits made through
// UpdateName survive later sign-ins.
func (s *service) GetOrCreate(ctx context.Context, profile Profile) (*models.User, error) {
	normalized := types.NormalizeEmail(profile.Email)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity email required")
	}
	now := s.now()

	existing, err := s.repo.FindByNormalizedEmail(ctx, normalized)
	switch {
	case err == nil:
		if err := s.repo.Touch(ctx, existing.ID, now, profile.ImageURL); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh user")
		}
		existing.LastSeenAt = now
		if profile.ImageURL != nil {
			existing.ImageURL = profile.ImageURL
		}
		return existing, nil
	case !db.IsNotFound(err):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	user := &models.User{
		Email:           strings.TrimSpace(profile.Email),
		NormalizedEmail: normalized,
		Name:            defaultName(profile.Name, normalized),
		ImageURL:        profile.ImageURL,
		CreatedAt:       now,
		LastSeenAt:      now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent first sign-in may have inserted the row already.
		if db.IsUniqueViolation(err, "") {
			if again, findErr := s.repo.FindByNormalizedEmail(ctx, normalized); findErr == nil {
				return again, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) GetCurrent(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) UpdateName(ctx context.Context, userID uuid.UUID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	affected, err := s.repo.UpdateName(ctx, userID, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user name")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.GetCurrent(ctx, userID)
}

func defaultName(name, normalizedEmail string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(normalizedEmail, "@")
	return local
}

package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/internal/crew"
	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/auth"
	"github.com/angelmondragon/crewstock-backend/pkg/config"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

// Identity is a verified, allowlisted caller.
type Identity struct {
	UserID          uuid.UUID
	Email           string
	NormalizedEmail string
	Name            string
}

// Resolver turns a bearer token into an Identity or an Unauthorized error.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

type userProvisioner interface {
	GetOrCreate(ctx context.Context, profile users.Profile) (*models.User, error)
}

// GateParams groups the collaborators of the identity gate.
type GateParams struct {
	Config    config.IdentityConfig
	Allowlist crew.Checker
	Users     userProvisioner
	Logger    *logger.Logger
}

// Gate verifies provider tokens and admits allowlisted emails.
type Gate struct {
	cfg       config.IdentityConfig
	allowlist crew.Checker
	users     userProvisioner
	logg      *logger.Logger
}

func NewGate(params GateParams) (*Gate, error) {
	if params.Allowlist == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "allowlist checker required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users service required")
	}
	if params.Config.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "identity secret required")
	}
	return &Gate{
		cfg:       params.Config,
		allowlist: params.Allowlist,
		users:     params.Users,
		logg:      params.Logger,
	}, nil
}

func (g *Gate) Resolve(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity token")
	}

	claims, err := auth.ParseIdentityToken(g.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid identity token")
	}
	normalized := types.NormalizeEmail(claims.Email)

	allowed, err := g.allowlist.IsAllowed(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if g.logg != nil {
			g.logg.Warn(g.logg.WithEmail(ctx, normalized), "identity.not_allowlisted")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "email not in allowlist")
	}

	profile := users.Profile{Email: claims.Email, Name: claims.Name}
	if claims.ImageURL != "" {
		img := claims.ImageURL
		profile.ImageURL = &img
	}
	user, err := g.users.GetOrCreate(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID:          user.ID,
		Email:           user.Email,
		NormalizedEmail: normalized,
		Name:            user.Name,
	}, nil
}

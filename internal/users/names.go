package users

import (
	"context"

	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

// NameResolver maps editor emails to current display names.
type NameResolver interface {
	CurrentNames(ctx context.Context, emails []string) (map[string]string, error)
}

type nameResolver struct {
	repo Repository
}

func NewNameResolver(repo Repository) (NameResolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &nameResolver{repo: repo}, nil
}

// CurrentNames returns names keyed by normalized email. Emails with no user
// are absent from the map.
func (r *nameResolver) CurrentNames(ctx context.Context, emails []string) (map[string]string, error) {
	seen := make(map[string]struct{}, len(emails))
	keys := make([]string, 0, len(emails))
	for _, email := range emails {
		key := types.NormalizeEmail(email)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := r.repo.FindByNormalizedEmails(ctx, keys)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve display names")
	}
	for _, row := range rows {
		out[row.NormalizedEmail] = row.Name
	}
	return out, nil
}

// DisplayName picks the current name for email, falling back to stored.
func DisplayName(names map[string]string, email, stored string) string {
	if name, ok := names[types.NormalizeEmail(email)]; ok && name != "" {
		return name
	}
	return stored
}

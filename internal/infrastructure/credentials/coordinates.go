package credentials

import (
	"context"
	"strings"

	"github.com/riskibarqy/tournament-data/internal/infrastructure/contentstore"
)

// Resolver combines the stored repository coordinates with overrides taken
// from the environment. A non-empty override wins over the stored value.
type Resolver struct {
	store     *Store
	overrides contentstore.Coordinates
}

func NewResolver(store *Store, overrides contentstore.Coordinates) *Resolver {
	return &Resolver{store: store, overrides: overrides}
}

func (r *Resolver) Coordinates(ctx context.Context) (contentstore.Coordinates, error) {
	out := contentstore.Coordinates{}
	if r.store != nil {
		var err error
		if out.Owner, _, err = r.store.Get(ctx, KeyGitHubOwner); err != nil {
			return contentstore.Coordinates{}, err
		}
		if out.Repo, _, err = r.store.Get(ctx, KeyGitHubRepo); err != nil {
			return contentstore.Coordinates{}, err
		}
		if out.Branch, err = r.store.Branch(ctx); err != nil {
			return contentstore.Coordinates{}, err
		}
		if out.Token, _, err = r.store.Get(ctx, KeyGitHubToken); err != nil {
			return contentstore.Coordinates{}, err
		}
	}

	out.Owner = pick(r.overrides.Owner, out.Owner)
	out.Repo = pick(r.overrides.Repo, out.Repo)
	out.Branch = pick(r.overrides.Branch, out.Branch)
	out.Token = pick(r.overrides.Token, out.Token)
	if out.Branch == "" {
		out.Branch = DefaultBranch
	}
	return out, nil
}

// BearerToken is the API token used against a conventional backend.
func (r *Resolver) BearerToken(ctx context.Context) (string, error) {
	if r.store == nil {
		return "", nil
	}
	token, _, err := r.store.Get(ctx, KeyToken)
	return token, err
}

func pick(override, stored string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return strings.TrimSpace(stored)
}

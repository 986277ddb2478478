// Package tokenstore persists the session token of each browser tab.
package tokenstore

import (
	"context"
	"time"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
)

// Repo stores one token per tab key. Get returns errors.ErrNotFound when nothing is stored.
type Repo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Tab is a Repo bound to a single tab key. It satisfies session.TokenStore.
type Tab struct {
	repo Repo
	key  string
	ttl  time.Duration
}

func ForTab(repo Repo, key string, ttl time.Duration) *Tab {
	return &Tab{repo: repo, key: key, ttl: ttl}
}

// Load returns "" when the tab has no stored token.
func (t *Tab) Load(ctx context.Context) (string, error) {
	token, err := t.repo.Get(ctx, t.key)
	if errors.Is(err, errors.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (t *Tab) Save(ctx context.Context, token string) error {
	return t.repo.Set(ctx, t.key, token, t.ttl)
}

func (t *Tab) Clear(ctx context.Context) error {
	return t.repo.Delete(ctx, t.key)
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("key is required")
	}
	return nil
}

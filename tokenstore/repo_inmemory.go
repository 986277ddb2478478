package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type entry struct {
	token     string
	expiresAt time.Time // zero means no expiry
}

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu     sync.RWMutex
	tokens map[string]entry
	now    func() time.Time
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		tokens: make(map[string]entry),
		now:    time.Now,
	}
}

func (r *InMemoryRepo) Get(_ context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	r.mu.RLock()
	e, ok := r.tokens[key]
	r.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)) {
		return "", errors.Wrapf(errors.ErrNotFound, "token for %s", key)
	}
	return e.token, nil
}

func (r *InMemoryRepo) Set(_ context.Context, key, token string, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}

	e := entry{token: token}
	if ttl > 0 {
		e.expiresAt = r.now().Add(ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[key] = e
	return nil
}

func (r *InMemoryRepo) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, key) // deleting a missing key is not an error
	return nil
}

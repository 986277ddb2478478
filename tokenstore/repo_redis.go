package tokenstore

import (
	"context"
	"time"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

const tokenPrefix = "dashboard:tab-token:"

// RedisRepo keeps tab tokens in Redis so they survive console restarts.
// Expiry is left to Redis TTLs.
type RedisRepo struct {
	client *redis.Client
}

func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

func (r *RedisRepo) Get(ctx context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	token, err := r.client.Get(ctx, tokenPrefix+key).Result()
	if err == redis.Nil {
		return "", errors.Wrapf(errors.ErrNotFound, "token for %s", key)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to get token")
	}
	return token, nil
}

func (r *RedisRepo) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, tokenPrefix+key, token, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to save token")
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Del(ctx, tokenPrefix+key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete token")
	}
	return nil
}

package config

import "time"

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

// StoreConfig selects where tab tokens are persisted.
type StoreConfig interface {
	GetTokenStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetTokenTTL() time.Duration
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetTokenStore() string {
	return GetEnv("TOKEN_STORE", TokenStoreMemory)
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetTokenTTL() time.Duration {
	return GetEnvDuration("TOKEN_TTL", 24*time.Hour)
}

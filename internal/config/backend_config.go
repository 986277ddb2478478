package config

import "time"

type Backend struct{}

func (Backend) GetMockAPIPort() string {
	return normalisePort(GetEnv("MOCKAPI_PORT", "5000"))
}

func (Backend) GetJWTSigningKey() string {
	return GetEnv("JWT_SIGNING_KEY", "dev-signing-key-change-me")
}

func (Backend) GetTokenTTL() time.Duration {
	return GetEnvDuration("TOKEN_TTL", 24*time.Hour)
}

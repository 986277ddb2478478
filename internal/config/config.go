package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	SessionConfig
	StoreConfig
}

// BackendConfig is the configuration of the development backend.
type BackendConfig interface {
	EnvConfig
	CorsConfig
	GetMockAPIPort() string
	GetJWTSigningKey() string
	GetTokenTTL() time.Duration
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Client
	Session
	Store
}

func New() Config {
	return mainConfig{}
}

type backendConfig struct {
	EnvVars
	Cors
	Backend
}

func NewBackend() BackendConfig {
	return backendConfig{}
}

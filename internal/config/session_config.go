package config

import "time"

type SessionConfig interface {
	GetSessionInitWait() time.Duration
	GetTabIdleTimeout() time.Duration
	GetLoginRate() float64
	GetLoginBurst() int
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionInitWait is how long a page request waits for session initialisation
// before the loading placeholder is served instead.
func (Session) GetSessionInitWait() time.Duration {
	return GetEnvDuration("SESSION_INIT_WAIT", 2*time.Second)
}

func (Session) GetTabIdleTimeout() time.Duration {
	return GetEnvDuration("TAB_IDLE_TIMEOUT", 30*time.Minute)
}

// GetLoginRate is the number of login attempts per second allowed for one tab.
func (Session) GetLoginRate() float64 {
	return GetEnvFloat("LOGIN_RATE", 0.5)
}

func (Session) GetLoginBurst() int {
	return GetEnvInt("LOGIN_BURST", 5)
}

// Package session owns the authenticated identity of one browser tab.
package session

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/users"
)

// Status is the three-way authentication state seen by route guards.
type Status int

const (
	StatusUnknown Status = iota // initialisation has not finished
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is only ever exposed complete: a token together with the user it belongs to.
type Session struct {
	UserID    string
	Name      string
	Email     string
	Role      users.Role
	Token     string
	ExpiresAt time.Time // zero when the token carries no expiry
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func newSession(u users.User, token string) Session {
	exp, _ := tokenExpiry(token)
	return Session{
		UserID:    u.ID,
		Name:      u.DisplayName(),
		Email:     u.Email,
		Role:      u.Role,
		Token:     token,
		ExpiresAt: exp,
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the backend verifies.
// Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Authenticator is the part of the resource client the store needs.
type Authenticator interface {
	Login(ctx context.Context, creds users.Credentials) api.Result[api.LoginResponse]
	CurrentUser(ctx context.Context, token string) api.Result[users.User]
}

// TokenStore persists the single token of this tab. Load returns "" when none is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

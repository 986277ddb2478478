// Package token issues and checks the bearer tokens handed out by the development backend.
package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const issuer = "monitor-dashboard-mockapi"

// Claims identify a user within an organization.
type Claims struct {
	Email          string     `json:"email"`
	Role           users.Role `json:"role"`
	OrganizationID string     `json:"org"`
	jwtlib.RegisteredClaims
}

type Issuer struct {
	signer Signer
	ttl    time.Duration
}

func NewIssuer(signer Signer, ttl time.Duration) *Issuer {
	return &Issuer{signer: signer, ttl: ttl}
}

// Issue creates an access token for user.
func (i *Issuer) Issue(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := Claims{
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
	}
	return i.signer.Sign(claims)
}

// Parse verifies raw and returns its claims. Every failure wraps errors.ErrInvalidToken.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwtlib.ParseWithClaims(raw, claims, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "missing subject")
	}
	return claims, nil
}

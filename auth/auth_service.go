// Package auth signs users in and out of the development backend.
package auth

import (
	"strings"
	"time"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/token"
	"github.com/jrsteele09/monitor-dashboard/users"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users         users.Repo
	Organizations organizations.Repo
}

// Service checks credentials, issues tokens and resolves them back to users.
type Service struct {
	repos   Repos
	issuer  *token.Issuer
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, issuer *token.Issuer, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Organizations == nil {
		return nil, errors.New("[NewService] Organizations repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] issuer is required")
	}

	s := &Service{
		repos:   repos,
		issuer:  issuer,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login returns a bearer token for the user owning email and password.
func (s *Service) Login(email, password string) (string, *users.User, error) {
	user, err := s.repos.Users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", nil, UserNotFoundErr
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, UserPasswordsDontMatchErr
	}
	if user.Status == users.StatusSuspended {
		return "", nil, UserSuspendedErr
	}

	raw, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, errors.Wrapf(err, "[Service.Login] Issue")
	}
	now := s.nowTime().UTC()
	if err := s.repos.Users.SetLastActive(user.ID, now); err != nil {
		return "", nil, errors.Wrapf(err, "[Service.Login] SetLastActive")
	}
	user.LastActive = now
	return raw, user, nil
}

// Authenticate resolves a bearer token to the current state of its user, so role
// changes apply to tokens issued before them.
func (s *Service) Authenticate(rawToken string) (*users.User, error) {
	claims, err := s.issuer.Parse(rawToken)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%v", err)
	}
	user, err := s.repos.Users.GetByID(claims.Subject)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "unknown subject")
	}
	if user.Status == users.StatusSuspended {
		return nil, UserSuspendedErr
	}
	return user, nil
}

// Register creates a free-plan organization and its first admin.
func (s *Service) Register(reg users.Registration) (*users.User, error) {
	if err := users.ValidatePasswordStrength(reg.Password); err != nil {
		return nil, errors.Wrapf(WeakPasswordErr, "%v", err)
	}
	if _, err := s.repos.Users.GetByEmail(reg.Email); err == nil {
		return nil, EmailTakenErr
	}
	hash, err := users.HashPassword(reg.Password)
	if err != nil {
		return nil, errors.Wrapf(err, "[Service.Register] HashPassword")
	}

	now := s.nowTime().UTC()
	org := &organizations.Organization{
		Name:         strings.TrimSpace(reg.OrganizationName),
		Plan:         organizations.PlanFree,
		MaxUsers:     organizations.DefaultMaxUsers(organizations.PlanFree),
		Features:     organizations.DefaultFeatures(organizations.PlanFree),
		BillingEmail: reg.Email,
		CreatedAt:    now,
	}
	if err := s.repos.Organizations.Upsert(org); err != nil {
		return nil, errors.Wrapf(err, "[Service.Register] Organizations.Upsert")
	}

	user := &users.User{
		FirstName:      strings.TrimSpace(reg.FirstName),
		LastName:       strings.TrimSpace(reg.LastName),
		Email:          strings.TrimSpace(reg.Email),
		Role:           users.RoleAdmin,
		Status:         users.StatusActive,
		OrganizationID: org.ID,
		CreatedAt:      now,
		PasswordHash:   hash,
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		_ = s.repos.Organizations.Delete(org.ID)
		return nil, errors.Wrapf(err, "[Service.Register] Users.Upsert")
	}
	return user, nil
}

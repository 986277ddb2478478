package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Role controls which pages and actions a user can reach.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Roles lists every role in ascending privilege order.
var Roles = []Role{RoleEmployee, RoleAdmin, RoleSuperAdmin}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	FirstName      string    `json:"firstName,omitempty"`
	LastName       string    `json:"lastName,omitempty"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Status         Status    `json:"status,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	Department     string    `json:"department,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	LastActive     time.Time `json:"lastActive"`
	CreatedAt      time.Time `json:"createdAt"`
	PasswordHash   string    `json:"-"` // never serialised
}

// DisplayName prefers the full name, then first and last name, then the email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}

// Matches is the free-text search over a loaded users page: name or email, case-insensitive.
func (u User) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.DisplayName()), term) ||
		strings.Contains(strings.ToLower(u.Email), term)
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// Registration is the signup form payload. It creates an organization owned by the new admin.
type Registration struct {
	FirstName        string `json:"firstName" validate:"notblank"`
	LastName         string `json:"lastName" validate:"notblank"`
	Email            string `json:"email" validate:"notblank,email"`
	Password         string `json:"password" validate:"notblank"`
	OrganizationName string `json:"organizationName" validate:"notblank"`
}

type RoleUpdate struct {
	Role Role `json:"role" validate:"required,oneof=employee admin superadmin"`
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

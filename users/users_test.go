package users_test

import (
	"testing"

	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := users.ParseRole(" Admin ")
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, r)

	_, err = users.ParseRole("root")
	require.Error(t, err)
}

func TestUser_DisplayName(t *testing.T) {
	require.Equal(t, "Jane Doe", users.User{Name: "Jane Doe", FirstName: "J"}.DisplayName())
	require.Equal(t, "Jane Doe", users.User{FirstName: "Jane", LastName: "Doe"}.DisplayName())
	require.Equal(t, "Jane", users.User{FirstName: "Jane"}.DisplayName())
	require.Equal(t, "j@x.com", users.User{Email: "j@x.com"}.DisplayName())
}

func TestUser_Matches(t *testing.T) {
	u := users.User{FirstName: "Jane", LastName: "Doe", Email: "jane@company.com"}

	t.Run("empty term", func(t *testing.T) {
		require.True(t, u.Matches("  "))
	})
	t.Run("name case insensitive", func(t *testing.T) {
		require.True(t, u.Matches("DOE"))
	})
	t.Run("email", func(t *testing.T) {
		require.True(t, u.Matches("company.com"))
	})
	t.Run("no match", func(t *testing.T) {
		require.False(t, u.Matches("bob"))
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Passw0rdOK"))
	require.ErrorContains(t, users.ValidatePasswordStrength("short"), "at least 8")
	require.ErrorContains(t, users.ValidatePasswordStrength("password1"), "uppercase")
	require.ErrorContains(t, users.ValidatePasswordStrength("PASSWORD1"), "lowercase")
	require.ErrorContains(t, users.ValidatePasswordStrength("Passwordd"), "number")
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("password")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("password", hash))
	require.False(t, users.CheckPasswordHash("Password", hash))
}

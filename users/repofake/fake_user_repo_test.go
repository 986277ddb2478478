package fakeuserrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/users"
	fakeuserrepo "github.com/jrsteele09/monitor-dashboard/users/repofake"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *fakeuserrepo.FakeUserRepo, n int, org string) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := repo.Upsert(&users.User{
			Email:          org + "-" + string(rune('a'+i)) + "@company.com",
			Role:           users.RoleEmployee,
			OrganizationID: org,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestFakeUserRepo_List(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	seed(t, repo, 12, "org-1")
	seed(t, repo, 3, "org-2")

	t.Run("first page", func(t *testing.T) {
		resp, err := repo.List("org-1", 0, 10)
		require.NoError(t, err)
		require.Len(t, resp.Users, 10)
		require.Equal(t, 12, resp.Total)
		require.Equal(t, "org-1-a@company.com", resp.Users[0].Email)
	})

	t.Run("last page", func(t *testing.T) {
		resp, err := repo.List("org-1", 10, 10)
		require.NoError(t, err)
		require.Len(t, resp.Users, 2)
	})

	t.Run("past the end", func(t *testing.T) {
		resp, err := repo.List("org-1", 20, 10)
		require.NoError(t, err)
		require.Empty(t, resp.Users)
		require.Equal(t, 12, resp.Total)
	})

	t.Run("count by organization", func(t *testing.T) {
		require.Equal(t, 3, repo.Count("org-2"))
		require.Equal(t, 15, repo.Count(""))
	})
}

func TestFakeUserRepo_Lifecycle(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	u := &users.User{Email: "Jane@Company.com", Role: users.RoleEmployee}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail("jane@company.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := repo.Upsert(&users.User{Email: "jane@company.com"})
		require.True(t, errors.Is(err, errors.ErrConflict))
	})

	t.Run("returned users are copies", func(t *testing.T) {
		got.Role = users.RoleSuperAdmin
		again, err := repo.GetByID(u.ID)
		require.NoError(t, err)
		require.Equal(t, users.RoleEmployee, again.Role)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(u.ID))
		_, err := repo.GetByID(u.ID)
		require.True(t, errors.Is(err, errors.ErrNotFound))
		require.True(t, errors.Is(repo.Delete(u.ID), errors.ErrNotFound))
	})
}

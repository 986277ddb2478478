package api

import (
	"testing"

	"github.com/jrsteele09/monitor-dashboard/internal/utils"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestNormalisePage(t *testing.T) {
	t.Run("reported totalPages wins", func(t *testing.T) {
		p := normalisePage(ints(20), 1, 20, reported{Total: utils.Ptr(100), TotalPages: utils.Ptr(5)}, false)
		require.Equal(t, 5, p.TotalPages)
		require.Equal(t, 100, p.Total)
		require.Len(t, p.Items, 20)
	})

	t.Run("total without totalPages", func(t *testing.T) {
		p := normalisePage(ints(10), 1, 10, reported{Total: utils.Ptr(42)}, false)
		require.Equal(t, 5, p.TotalPages)
	})

	t.Run("zero total still has one page", func(t *testing.T) {
		p := normalisePage[int](nil, 1, 10, reported{Total: utils.Ptr(0)}, false)
		require.Equal(t, 1, p.TotalPages)
		require.NotNil(t, p.Items)
		require.Empty(t, p.Items)
	})

	t.Run("reported page and limit override requested", func(t *testing.T) {
		p := normalisePage(ints(5), 1, 10, reported{Page: utils.Ptr(3), Limit: utils.Ptr(5), Total: utils.Ptr(15)}, false)
		require.Equal(t, 3, p.Page)
		require.Equal(t, 5, p.Limit)
		require.Equal(t, 3, p.TotalPages)
	})

	t.Run("bare array larger than limit is sliced", func(t *testing.T) {
		p := normalisePage(ints(25), 2, 10, reported{}, true)
		require.Equal(t, []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, p.Items)
		require.Equal(t, 25, p.Total)
		require.Equal(t, 3, p.TotalPages)
	})

	t.Run("bare array page past the end is empty", func(t *testing.T) {
		p := normalisePage(ints(25), 4, 10, reported{}, true)
		require.Empty(t, p.Items)
		require.Equal(t, 3, p.TotalPages)
	})

	t.Run("short page without counts is the last page", func(t *testing.T) {
		p := normalisePage(ints(3), 1, 10, reported{}, true)
		require.Equal(t, 3, p.Total)
		require.Equal(t, 1, p.TotalPages)
	})

	t.Run("bare array of exactly one page is the whole collection", func(t *testing.T) {
		p := normalisePage(ints(10), 1, 10, reported{}, true)
		require.Len(t, p.Items, 10)
		require.Equal(t, 10, p.Total)
		require.Equal(t, 1, p.TotalPages)

		p = normalisePage(ints(10), 2, 10, reported{}, true)
		require.Empty(t, p.Items)
		require.Equal(t, 1, p.TotalPages)
	})

	t.Run("empty bare array is a single empty page", func(t *testing.T) {
		p := normalisePage(ints(0), 1, 10, reported{}, true)
		require.Empty(t, p.Items)
		require.Equal(t, 0, p.Total)
		require.Equal(t, 1, p.TotalPages)
	})

	t.Run("full page without counts allows one more", func(t *testing.T) {
		p := normalisePage(ints(10), 2, 10, reported{}, false)
		require.Equal(t, 20, p.Total)
		require.Equal(t, 3, p.TotalPages)
	})

	t.Run("oversized envelope page is truncated", func(t *testing.T) {
		p := normalisePage(ints(12), 1, 10, reported{Total: utils.Ptr(12)}, false)
		require.Len(t, p.Items, 10)
		require.Equal(t, 2, p.TotalPages)
	})
}

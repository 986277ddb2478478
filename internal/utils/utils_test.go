package utils_test

import (
	"testing"

	"github.com/jrsteele09/monitor-dashboard/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestCeilDiv(t *testing.T) {
	require.Equal(t, 1, utils.CeilDiv(0, 10))
	require.Equal(t, 1, utils.CeilDiv(10, 10))
	require.Equal(t, 2, utils.CeilDiv(11, 10))
	require.Equal(t, 5, utils.CeilDiv(100, 20))
	require.Equal(t, 1, utils.CeilDiv(7, 0))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 5, utils.Clamp(6, 1, 5))
	require.Equal(t, 1, utils.Clamp(0, 1, 5))
	require.Equal(t, 3, utils.Clamp(3, 1, 5))
	require.Equal(t, 2, utils.Clamp(4, 3, 2))
}

func TestPtrValue(t *testing.T) {
	require.Equal(t, "x", utils.Value(utils.Ptr("x")))
	require.Equal(t, 0, utils.Value[int](nil))

	p := utils.Ptr(7)
	*p = 8
	require.Equal(t, 8, utils.Value(p))
}

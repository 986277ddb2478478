package errors_test

import (
	"testing"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "ignored"))

	err := errors.Wrapf(errors.ErrNotFound, "user %s", "u-1")
	require.EqualError(t, err, "user u-1: not found")
	require.True(t, errors.Is(err, errors.ErrNotFound))
	require.False(t, errors.Is(err, errors.ErrForbidden))
}

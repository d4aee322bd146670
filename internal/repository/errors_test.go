package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapStore(t *testing.T) {
	require.NoError(t, WrapStore("get", nil))

	cause := errors.New("disk I/O error")
	err := WrapStore("get project", cause)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "get project", se.Op)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "store: get project: disk I/O error", err.Error())

	again := WrapStore("outer", fmt.Errorf("context: %w", err))
	require.ErrorAs(t, again, &se)
	require.Equal(t, "get project", se.Op)
}

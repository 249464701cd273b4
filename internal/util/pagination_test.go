package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkipLimit(t *testing.T) {
	skip, limit := SkipLimit(0, 100, 100, 200)
	require.Equal(t, 0, skip)
	require.Equal(t, 100, limit)

	skip, limit = SkipLimit(-5, 0, 50, 200)
	require.Equal(t, 0, skip)
	require.Equal(t, 50, limit)

	skip, limit = SkipLimit(10, 500, 50, 200)
	require.Equal(t, 10, skip)
	require.Equal(t, 50, limit)
}

func TestCalculate(t *testing.T) {
	from, size := Calculate(1, 10)
	require.Equal(t, 0, from)
	require.Equal(t, 10, size)

	from, size = Calculate(3, 20)
	require.Equal(t, 40, from)
	require.Equal(t, 20, size)

	from, size = Calculate(0, 0)
	require.Equal(t, 0, from)
	require.Equal(t, 10, size)

	from, size = Calculate(2, 1000)
	require.Equal(t, 10, from)
	require.Equal(t, 10, size)
}

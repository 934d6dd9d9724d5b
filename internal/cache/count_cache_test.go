package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountCache_WithinTTLComputesOnce(t *testing.T) {
	c := NewCountCache()
	calls := 0
	compute := func() (int64, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrCompute("business_count", 45*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = c.GetOrCompute("business_count", 45*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	assert.Equal(t, 1, calls)
}

func TestCountCache_ExpiredTTLRecomputes(t *testing.T) {
	c := NewCountCache()
	current := time.Now()
	c.now = func() time.Time { return current }

	calls := 0
	compute := func() (int64, error) {
		calls++
		return int64(calls), nil
	}

	v, err := c.GetOrCompute("business_count", 45*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// qua cửa sổ TTL
	current = current.Add(46 * time.Second)

	v, err = c.GetOrCompute("business_count", 45*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, 2, calls)
}

func TestCountCache_ComputeErrorNotCached(t *testing.T) {
	c := NewCountCache()
	calls := 0

	_, err := c.GetOrCompute("k", time.Minute, func() (int64, error) {
		calls++
		return 0, errors.New("db down")
	})
	assert.Error(t, err)

	v, err := c.GetOrCompute("k", time.Minute, func() (int64, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	assert.Equal(t, 2, calls)
}

func TestCountCache_Sweep(t *testing.T) {
	c := NewCountCache()
	current := time.Now()
	c.now = func() time.Time { return current }

	_, err := c.GetOrCompute("short", time.Second, func() (int64, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.GetOrCompute("long", time.Hour, func() (int64, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	current = current.Add(2 * time.Second)

	removed := c.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
}

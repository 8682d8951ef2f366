package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/gastos-api/internal/models"
)

// TestTotalsCache runs against a live Redis when REDIS_TEST_ADDR is set.
func TestTotalsCache(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("set REDIS_TEST_ADDR to run this integration test")
	}

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_TEST_PASSWORD"))
	require.NoError(t, err)
	defer rdb.Close()

	c := NewTotalsCache(rdb, time.Minute)
	user := fmt.Sprintf("test-%d", time.Now().UnixNano())

	_, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []models.MonthlyTotal{{Period: models.Period{Year: 2024, Month: 1}, Total: 150}}
	require.NoError(t, c.Set(ctx, user, want))

	got, ok, err := c.Get(ctx, user)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Invalidate(ctx, user))
	_, ok, err = c.Get(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)
}

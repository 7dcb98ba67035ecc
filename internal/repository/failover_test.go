package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"agendavel/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyCache struct {
	inner  *MemoryOccupancyCache
	broken bool
}

func (f *flakyCache) GetOccupancy(ctx context.Context, locationKey, date string) (*models.DayOccupancy, error) {
	if f.broken {
		return nil, errors.New("connection refused")
	}
	return f.inner.GetOccupancy(ctx, locationKey, date)
}

func (f *flakyCache) SetOccupancy(ctx context.Context, occupancy *models.DayOccupancy) error {
	if f.broken {
		return errors.New("connection refused")
	}
	return f.inner.SetOccupancy(ctx, occupancy)
}

func (f *flakyCache) Invalidate(ctx context.Context, locationKey, date string) error {
	if f.broken {
		return errors.New("connection refused")
	}
	return f.inner.Invalidate(ctx, locationKey, date)
}

func TestFailoverUsesPrimaryWhenHealthy(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	primary := &flakyCache{inner: NewMemoryOccupancyCache(time.Minute)}
	fallback := NewMemoryOccupancyCache(time.Minute)
	failover := NewFailoverOccupancyCache(primary, fallback, &logger)
	ctx := context.Background()

	occ := &models.DayOccupancy{LocationKey: "sao paulo", Date: "2026-09-14", Times: []string{"08:00"}}
	require.NoError(t, failover.SetOccupancy(ctx, occ))

	got, err := failover.GetOccupancy(ctx, "sao paulo", "2026-09-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"08:00"}, got.Times)

	// The fallback was not written while the primary is healthy.
	inFallback, _ := fallback.GetOccupancy(ctx, "sao paulo", "2026-09-14")
	assert.Nil(t, inFallback)
}

func TestFailoverTripsToFallback(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	primary := &flakyCache{inner: NewMemoryOccupancyCache(time.Minute), broken: true}
	fallback := NewMemoryOccupancyCache(time.Minute)
	failover := NewFailoverOccupancyCache(primary, fallback, &logger)
	ctx := context.Background()

	occ := &models.DayOccupancy{LocationKey: "campinas", Date: "2026-09-14", Times: []string{"09:00"}}
	require.NoError(t, failover.SetOccupancy(ctx, occ))

	got, err := failover.GetOccupancy(ctx, "campinas", "2026-09-14")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"09:00"}, got.Times)
}

func TestFailoverInvalidateReachesFallback(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	primary := &flakyCache{inner: NewMemoryOccupancyCache(time.Minute)}
	fallback := NewMemoryOccupancyCache(time.Minute)
	failover := NewFailoverOccupancyCache(primary, fallback, &logger)
	ctx := context.Background()

	occ := &models.DayOccupancy{LocationKey: "santos", Date: "2026-09-14", Times: []string{"10:00"}}
	require.NoError(t, fallback.SetOccupancy(ctx, occ))
	require.NoError(t, primary.SetOccupancy(ctx, occ))

	require.NoError(t, failover.Invalidate(ctx, "santos", "2026-09-14"))

	got, _ := fallback.GetOccupancy(ctx, "santos", "2026-09-14")
	assert.Nil(t, got)
	got, _ = primary.GetOccupancy(ctx, "santos", "2026-09-14")
	assert.Nil(t, got)
}

func TestFailoverConcurrentRequests(t *testing.T) {
	logger := zerolog.New(io.Discard)
	primary := &flakyCache{inner: NewMemoryOccupancyCache(time.Minute), broken: true}
	fallback := NewMemoryOccupancyCache(time.Minute)
	failover := NewFailoverOccupancyCache(primary, fallback, &logger)
	ctx := context.Background()

	occ := &models.DayOccupancy{LocationKey: "sao paulo", Date: "2026-09-14", Times: []string{"08:00"}}
	require.NoError(t, fallback.SetOccupancy(ctx, occ))

	// Request goroutines trip the failover and read the recovery
	// timestamp concurrently; run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := failover.GetOccupancy(ctx, "sao paulo", "2026-09-14")
				assert.NoError(t, err)
				assert.NotNil(t, got)
				_ = failover.SetOccupancy(ctx, occ)
			}
		}()
	}
	wg.Wait()

	assert.True(t, failover.isDown.Load())
}

func TestMemoryCacheTTL(t *testing.T) {
	cache := NewMemoryOccupancyCache(10 * time.Millisecond)
	ctx := context.Background()

	occ := &models.DayOccupancy{LocationKey: "x", Date: "2026-09-14", Times: []string{"08:00"}}
	require.NoError(t, cache.SetOccupancy(ctx, occ))

	got, err := cache.GetOccupancy(ctx, "x", "2026-09-14")
	require.NoError(t, err)
	require.NotNil(t, got)

	time.Sleep(20 * time.Millisecond)

	got, err = cache.GetOccupancy(ctx, "x", "2026-09-14")
	require.NoError(t, err)
	assert.Nil(t, got)
}

package repository

import (
	"context"
	"sync/atomic"
	"time"

	"agendavel/internal/domain"
	"agendavel/internal/models"

	"github.com/rs/zerolog"
)

// FailoverOccupancyCache serves from the primary (redis) cache until it
// errors, then trips to the fallback (memory) and retries the primary
// after a minute.
type FailoverOccupancyCache struct {
	primary  domain.OccupancyCache
	fallback domain.OccupancyCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// Unix nanos of the last failed primary attempt. Read and written
	// from concurrent request goroutines, so it is atomic like isDown.
	lastCheck atomic.Int64
}

func NewFailoverOccupancyCache(primary, fallback domain.OccupancyCache, logger *zerolog.Logger) *FailoverOccupancyCache {
	return &FailoverOccupancyCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverOccupancyCache) GetOccupancy(ctx context.Context, locationKey, date string) (*models.DayOccupancy, error) {
	if !f.isDown.Load() {
		occupancy, err := f.primary.GetOccupancy(ctx, locationKey, date)
		if err == nil {
			return occupancy, nil
		}
		f.logger.Error().Err(err).Msg("Primary occupancy cache failed, falling back to memory")
		f.markDown()
	}

	// Try to recover after 1 minute
	if f.isDown.Load() && f.retryDue() {
		occupancy, err := f.primary.GetOccupancy(ctx, locationKey, date)
		if err == nil {
			f.isDown.Store(false)
			return occupancy, nil
		}
		f.lastCheck.Store(time.Now().UnixNano())
	}

	return f.fallback.GetOccupancy(ctx, locationKey, date)
}

func (f *FailoverOccupancyCache) markDown() {
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().UnixNano())
}

func (f *FailoverOccupancyCache) retryDue() bool {
	return time.Since(time.Unix(0, f.lastCheck.Load())) > time.Minute
}

func (f *FailoverOccupancyCache) SetOccupancy(ctx context.Context, occupancy *models.DayOccupancy) error {
	if !f.isDown.Load() {
		err := f.primary.SetOccupancy(ctx, occupancy)
		if err == nil {
			return nil
		}
		f.logger.Error().Err(err).Msg("Primary occupancy cache failed, falling back to memory")
		f.markDown()
	}

	return f.fallback.SetOccupancy(ctx, occupancy)
}

func (f *FailoverOccupancyCache) Invalidate(ctx context.Context, locationKey, date string) error {
	// Invalidation must reach both sides; a stale fallback entry would
	// resurface freed or taken slots after a failover.
	var primaryErr error
	if !f.isDown.Load() {
		primaryErr = f.primary.Invalidate(ctx, locationKey, date)
		if primaryErr != nil {
			f.logger.Error().Err(primaryErr).Msg("Primary occupancy cache failed, falling back to memory")
			f.markDown()
		}
	}

	if err := f.fallback.Invalidate(ctx, locationKey, date); err != nil {
		return err
	}
	return primaryErr
}

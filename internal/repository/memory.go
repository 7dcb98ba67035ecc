package repository

import (
	"context"
	"sync"
	"time"

	"agendavel/internal/models"
)

type memoryEntry struct {
	occupancy *models.DayOccupancy
	expiresAt time.Time
}

// MemoryOccupancyCache is the in-process fallback used when redis is down.
type MemoryOccupancyCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryOccupancyCache(ttl time.Duration) *MemoryOccupancyCache {
	return &MemoryOccupancyCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (m *MemoryOccupancyCache) GetOccupancy(ctx context.Context, locationKey, date string) (*models.DayOccupancy, error) {
	m.mu.RLock()
	entry, ok := m.entries[occupancyKey(locationKey, date)]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, occupancyKey(locationKey, date))
		m.mu.Unlock()
		return nil, nil
	}
	return entry.occupancy, nil
}

func (m *MemoryOccupancyCache) SetOccupancy(ctx context.Context, occupancy *models.DayOccupancy) error {
	m.mu.Lock()
	m.entries[occupancyKey(occupancy.LocationKey, occupancy.Date)] = memoryEntry{
		occupancy: occupancy,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryOccupancyCache) Invalidate(ctx context.Context, locationKey, date string) error {
	m.mu.Lock()
	delete(m.entries, occupancyKey(locationKey, date))
	m.mu.Unlock()
	return nil
}

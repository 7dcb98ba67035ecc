package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agendavel/internal/models"
	"agendavel/internal/schedule"
)

const locationColumns = `id, name, key, city, morning_enabled, morning_start, morning_end,
				 afternoon_enabled, afternoon_start, afternoon_end, interval_minutes,
				 is_active, created_at, updated_at`

// SeedLocations upserts the configured locations (matched by normalized
// key) and warms the in-memory cache used by the slot logic.
func (db *DB) SeedLocations(ctx context.Context, locations []models.Location) error {
	for i := range locations {
		loc := &locations[i]
		loc.Key = schedule.NormalizeName(loc.Name)
		loc.Hours.ApplyDefaults()
		if err := schedule.ValidateHours(loc.Hours); err != nil {
			return fmt.Errorf("location %q: %w", loc.Name, err)
		}
		if err := db.UpsertLocation(ctx, loc); err != nil {
			return err
		}
	}

	return db.ReloadLocations(ctx)
}

func (db *DB) UpsertLocation(ctx context.Context, loc *models.Location) error {
	if loc.Key == "" {
		loc.Key = schedule.NormalizeName(loc.Name)
	}

	query := `
        INSERT INTO locations (name, key, city, morning_enabled, morning_start, morning_end,
            afternoon_enabled, afternoon_start, afternoon_end, interval_minutes, is_active, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            name = excluded.name,
            city = excluded.city,
            morning_enabled = excluded.morning_enabled,
            morning_start = excluded.morning_start,
            morning_end = excluded.morning_end,
            afternoon_enabled = excluded.afternoon_enabled,
            afternoon_start = excluded.afternoon_start,
            afternoon_end = excluded.afternoon_end,
            interval_minutes = excluded.interval_minutes,
            is_active = excluded.is_active,
            updated_at = excluded.updated_at
    `

	_, err := db.ExecContext(ctx, query,
		loc.Name,
		loc.Key,
		loc.City,
		loc.Hours.MorningEnabled,
		loc.Hours.MorningStart,
		loc.Hours.MorningEnd,
		loc.Hours.AfternoonEnabled,
		loc.Hours.AfternoonStart,
		loc.Hours.AfternoonEnd,
		loc.Hours.IntervalMinutes,
		loc.IsActive,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert location %q: %w", loc.Name, err)
	}
	return nil
}

// ReloadLocations refreshes the in-memory location cache from the table.
func (db *DB) ReloadLocations(ctx context.Context) error {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}
	defer rows.Close()

	cache := make(map[string]*models.Location)
	var names []string
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return err
		}
		cache[loc.Key] = loc
		names = append(names, loc.Name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	db.locationsCache = cache
	db.sortedNames = names
	db.mu.Unlock()
	return nil
}

func scanLocation(rows *sql.Rows) (*models.Location, error) {
	loc := &models.Location{}
	err := rows.Scan(
		&loc.ID, &loc.Name, &loc.Key, &loc.City,
		&loc.Hours.MorningEnabled, &loc.Hours.MorningStart, &loc.Hours.MorningEnd,
		&loc.Hours.AfternoonEnabled, &loc.Hours.AfternoonStart, &loc.Hours.AfternoonEnd,
		&loc.Hours.IntervalMinutes, &loc.IsActive, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan location: %w", err)
	}
	return loc, nil
}

// GetLocationByName resolves a location case- and accent-insensitively.
// Served from the cache; falls back to the table on a miss.
func (db *DB) GetLocationByName(ctx context.Context, name string) (*models.Location, error) {
	key := schedule.NormalizeName(name)

	db.mu.RLock()
	loc, ok := db.locationsCache[key]
	db.mu.RUnlock()
	if ok {
		return loc, nil
	}

	query := `SELECT ` + locationColumns + ` FROM locations WHERE key = ?`
	row := db.QueryRowContext(ctx, query, key)
	found := &models.Location{}
	err := row.Scan(
		&found.ID, &found.Name, &found.Key, &found.City,
		&found.Hours.MorningEnabled, &found.Hours.MorningStart, &found.Hours.MorningEnd,
		&found.Hours.AfternoonEnabled, &found.Hours.AfternoonStart, &found.Hours.AfternoonEnd,
		&found.Hours.IntervalMinutes, &found.IsActive, &found.CreatedAt, &found.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location %q: %w", name, err)
	}

	db.mu.Lock()
	db.locationsCache[found.Key] = found
	db.mu.Unlock()
	return found, nil
}

func (db *DB) GetActiveLocations(ctx context.Context) ([]*models.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE is_active = 1 ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// UpdateLocationHours replaces the working hours of a location and
// refreshes the cache entry.
func (db *DB) UpdateLocationHours(ctx context.Context, name string, hours models.WorkingHours) error {
	hours.ApplyDefaults()
	if err := schedule.ValidateHours(hours); err != nil {
		return err
	}

	key := schedule.NormalizeName(name)
	query := `UPDATE locations SET morning_enabled = ?, morning_start = ?, morning_end = ?,
                  afternoon_enabled = ?, afternoon_start = ?, afternoon_end = ?,
                  interval_minutes = ?, updated_at = ?
              WHERE key = ?`
	result, err := db.ExecContext(ctx, query,
		hours.MorningEnabled, hours.MorningStart, hours.MorningEnd,
		hours.AfternoonEnabled, hours.AfternoonStart, hours.AfternoonEnd,
		hours.IntervalMinutes, time.Now(), key)
	if err != nil {
		return fmt.Errorf("failed to update location hours: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrLocationNotFound
	}

	return db.ReloadLocations(ctx)
}

func (db *DB) DeactivateLocation(ctx context.Context, name string) error {
	key := schedule.NormalizeName(name)
	query := `UPDATE locations SET is_active = 0, updated_at = ? WHERE key = ?`
	result, err := db.ExecContext(ctx, query, time.Now(), key)
	if err != nil {
		return fmt.Errorf("failed to deactivate location: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrLocationNotFound
	}
	return db.ReloadLocations(ctx)
}

package database

import (
	"context"
	"testing"

	"agendavel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLocations(t *testing.T, db *DB) {
	t.Helper()
	err := db.SeedLocations(context.Background(), []models.Location{
		{Name: "São Paulo", City: "São Paulo", IsActive: true},
		{Name: "Campinas", City: "Campinas", IsActive: true,
			Hours: models.WorkingHours{
				MorningEnabled:  true,
				MorningStart:    "09:00",
				MorningEnd:      "13:00",
				IntervalMinutes: 20,
			}},
		{Name: "Santos", City: "Santos", IsActive: false},
	})
	require.NoError(t, err)
}

func TestSeedLocationsAppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	seedLocations(t, db)

	loc, err := db.GetLocationByName(context.Background(), "São Paulo")
	require.NoError(t, err)
	assert.Equal(t, "sao paulo", loc.Key)
	assert.Equal(t, models.DefaultMorningStart, loc.Hours.MorningStart)
	assert.Equal(t, models.DefaultAfternoonEnd, loc.Hours.AfternoonEnd)
	assert.Equal(t, models.DefaultIntervalMinutes, loc.Hours.IntervalMinutes)
}

func TestGetLocationByNameAccentInsensitive(t *testing.T) {
	db := setupTestDB(t)
	seedLocations(t, db)
	ctx := context.Background()

	loc, err := db.GetLocationByName(ctx, "sao paulo")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", loc.Name)

	loc, err = db.GetLocationByName(ctx, "  SÃO  PAULO ")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", loc.Name)

	_, err = db.GetLocationByName(ctx, "Curitiba")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestSeedLocationsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedLocations(t, db)
	seedLocations(t, db)

	active, err := db.GetActiveLocations(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2) // Santos is inactive
}

func TestUpdateLocationHours(t *testing.T) {
	db := setupTestDB(t)
	seedLocations(t, db)
	ctx := context.Background()

	hours := models.WorkingHours{
		MorningEnabled:  true,
		MorningStart:    "07:00",
		MorningEnd:      "11:00",
		IntervalMinutes: 15,
	}
	require.NoError(t, db.UpdateLocationHours(ctx, "Campinas", hours))

	loc, err := db.GetLocationByName(ctx, "campinas")
	require.NoError(t, err)
	assert.Equal(t, "07:00", loc.Hours.MorningStart)
	assert.Equal(t, 15, loc.Hours.IntervalMinutes)
	assert.False(t, loc.Hours.AfternoonEnabled)

	// Invalid hours are rejected before touching the table.
	bad := hours
	bad.MorningStart = "12:00"
	bad.MorningEnd = "08:00"
	assert.Error(t, db.UpdateLocationHours(ctx, "Campinas", bad))

	assert.ErrorIs(t, db.UpdateLocationHours(ctx, "Curitiba", hours), ErrLocationNotFound)
}

func TestDeactivateLocation(t *testing.T) {
	db := setupTestDB(t)
	seedLocations(t, db)
	ctx := context.Background()

	require.NoError(t, db.DeactivateLocation(ctx, "Campinas"))

	active, err := db.GetActiveLocations(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "São Paulo", active[0].Name)
}

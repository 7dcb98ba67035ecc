package export

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agendavel/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLocations() []*models.Location {
	full := models.WorkingHours{}
	full.ApplyDefaults()

	morningOnly := models.WorkingHours{
		MorningEnabled:  true,
		MorningStart:    "08:00",
		MorningEnd:      "10:00",
		IntervalMinutes: 30,
	}

	return []*models.Location{
		{ID: 1, Name: "São Paulo", Key: "sao paulo", Hours: full, IsActive: true},
		{ID: 2, Name: "Campinas", Key: "campinas", Hours: morningOnly, IsActive: true},
	}
}

func TestBuildDaySchedule(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	bookings := map[string][]*models.Booking{
		"sao paulo": {
			{ID: 1, Time: "09:00", ClientName: "Maria Souza", ClientPhone: "11987654321", Status: models.StatusConfirmed},
		},
	}

	f, err := exporter.BuildDaySchedule(date, testLocations(), bookings)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Agenda: 14.09.2026", title)

	header, _ := f.GetCellValue(sheetName, "B2")
	assert.Equal(t, "São Paulo", header)
	header, _ = f.GetCellValue(sheetName, "C2")
	assert.Equal(t, "Campinas", header)

	// First slot row is 08:00 for both locations.
	slot, _ := f.GetCellValue(sheetName, "A3")
	assert.Equal(t, "08:00", slot)

	// 09:00 is the third slot row; booked in São Paulo, free in Campinas.
	slot, _ = f.GetCellValue(sheetName, "A5")
	assert.Equal(t, "09:00", slot)
	cell, _ := f.GetCellValue(sheetName, "B5")
	assert.Contains(t, cell, "Maria Souza")
	assert.Contains(t, cell, "11987654321")
	cell, _ = f.GetCellValue(sheetName, "C5")
	assert.Equal(t, "Livre", cell)

	// 14:00 is outside Campinas' morning-only hours.
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	found := false
	for _, row := range rows {
		if len(row) >= 3 && row[0] == "14:00" {
			assert.Equal(t, "—", row[2])
			found = true
		}
	}
	assert.True(t, found, "expected a 14:00 row")
}

func TestWriteDaySchedule(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := exporter.WriteDaySchedule(&buf, date, testLocations(), nil)
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue(sheetName, "A1")
	assert.True(t, strings.HasPrefix(title, "Agenda:"))
}

func TestSaveDaySchedule(t *testing.T) {
	logger := zerolog.New(io.Discard)
	dir := t.TempDir()
	exporter := NewExporter(dir, &logger)
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	path, err := exporter.SaveDaySchedule(date, testLocations(), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "agenda_2026-09-14.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	f.Close()
}

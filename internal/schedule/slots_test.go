package schedule

import (
	"testing"

	"agendavel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDay() models.WorkingHours {
	return models.WorkingHours{
		MorningEnabled:   true,
		MorningStart:     "08:00",
		MorningEnd:       "12:00",
		AfternoonEnabled: true,
		AfternoonStart:   "14:00",
		AfternoonEnd:     "18:00",
		IntervalMinutes:  30,
	}
}

func TestGenerateSlotsFullDay(t *testing.T) {
	slots := GenerateSlots(fullDay())

	require.Len(t, slots, 16)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "11:30", slots[7])
	assert.Equal(t, "14:00", slots[8])
	assert.Equal(t, "17:30", slots[15])

	// Strictly increasing throughout.
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}
}

func TestGenerateSlotsEndExclusive(t *testing.T) {
	hours := models.WorkingHours{
		MorningEnabled:  true,
		MorningStart:    "08:00",
		MorningEnd:      "09:00",
		IntervalMinutes: 30,
	}

	assert.Equal(t, []string{"08:00", "08:30"}, GenerateSlots(hours))
}

func TestGenerateSlotsMinuteRollover(t *testing.T) {
	hours := models.WorkingHours{
		MorningEnabled:  true,
		MorningStart:    "08:00",
		MorningEnd:      "10:30",
		IntervalMinutes: 45,
	}

	// 08:45 -> 09:30 crosses the hour boundary via minute carry.
	assert.Equal(t, []string{"08:00", "08:45", "09:30", "10:15"}, GenerateSlots(hours))
}

func TestGenerateSlotsDisabledPeriods(t *testing.T) {
	hours := fullDay()
	hours.MorningEnabled = false
	slots := GenerateSlots(hours)
	require.NotEmpty(t, slots)
	assert.Equal(t, "14:00", slots[0])

	hours.AfternoonEnabled = false
	assert.Empty(t, GenerateSlots(hours))
}

func TestGenerateSlotsZeroWidthPeriod(t *testing.T) {
	hours := models.WorkingHours{
		MorningEnabled:  true,
		MorningStart:    "08:00",
		MorningEnd:      "08:00",
		IntervalMinutes: 30,
	}

	assert.Empty(t, GenerateSlots(hours))
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	hours := fullDay()
	assert.Equal(t, GenerateSlots(hours), GenerateSlots(hours))
}

func TestGenerateSlotsIntervalSpacing(t *testing.T) {
	for _, interval := range []int{15, 20, 30, 40, 60} {
		hours := fullDay()
		hours.IntervalMinutes = interval
		slots := GenerateSlots(hours)
		require.NotEmpty(t, slots)

		// Consecutive morning slots differ by exactly the interval.
		for i := 1; i < len(slots); i++ {
			prev := minutesOf(t, slots[i-1])
			cur := minutesOf(t, slots[i])
			if cur-prev != interval {
				// Allowed only at the morning/afternoon boundary.
				assert.Equal(t, "14:00", slots[i], "interval %d", interval)
			}
		}
	}
}

func minutesOf(t *testing.T, clock string) int {
	t.Helper()
	h, m, err := parseClock(clock)
	require.NoError(t, err)
	return h*60 + m
}

func TestAvailableSlots(t *testing.T) {
	free := AvailableSlots([]string{"08:00", "08:30", "09:00"}, []string{"08:30"})
	assert.Equal(t, []string{"08:00", "09:00"}, free)
}

func TestAvailableSlotsNothingBooked(t *testing.T) {
	candidates := []string{"08:00", "08:30"}
	assert.Equal(t, candidates, AvailableSlots(candidates, nil))
}

func TestAvailableSlotsAllBooked(t *testing.T) {
	assert.Empty(t, AvailableSlots([]string{"08:00"}, []string{"08:00", "09:00"}))
}

func TestAvailableSlotsExactMatchOnly(t *testing.T) {
	// No fuzzy matching: "8:30" is not "08:30".
	free := AvailableSlots([]string{"08:30"}, []string{"8:30"})
	assert.Equal(t, []string{"08:30"}, free)
}

func TestValidateHours(t *testing.T) {
	assert.NoError(t, ValidateHours(fullDay()))

	bad := fullDay()
	bad.IntervalMinutes = 0
	assert.Error(t, ValidateHours(bad))

	bad = fullDay()
	bad.MorningStart = "12:00"
	bad.MorningEnd = "08:00"
	assert.Error(t, ValidateHours(bad))

	bad = fullDay()
	bad.AfternoonEnd = "25:00"
	assert.Error(t, ValidateHours(bad))

	// Disabled periods are not validated.
	bad = fullDay()
	bad.MorningEnabled = false
	bad.MorningStart = "garbage"
	assert.NoError(t, ValidateHours(bad))
}

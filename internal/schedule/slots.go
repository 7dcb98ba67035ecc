package schedule

import (
	"fmt"

	"agendavel/internal/models"
)

// GenerateSlots produces the ordered candidate appointment times for one
// day of a location. Morning slots come before afternoon slots; within a
// period times are strictly increasing and spaced IntervalMinutes apart.
// Period ends are exclusive. Pure function; recomputation is idempotent.
func GenerateSlots(hours models.WorkingHours) []string {
	var slots []string
	if hours.MorningEnabled {
		slots = appendPeriodSlots(slots, hours.MorningStart, hours.MorningEnd, hours.IntervalMinutes)
	}
	if hours.AfternoonEnabled {
		slots = appendPeriodSlots(slots, hours.AfternoonStart, hours.AfternoonEnd, hours.IntervalMinutes)
	}
	return slots
}

func appendPeriodSlots(slots []string, start, end string, interval int) []string {
	if interval <= 0 {
		return slots
	}
	sh, sm, err := parseClock(start)
	if err != nil {
		return slots
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return slots
	}

	h, m := sh, sm
	for h < eh || (h == eh && m < em) {
		slots = append(slots, fmt.Sprintf("%02d:%02d", h, m))
		m += interval
		h += m / 60
		m %= 60
	}
	return slots
}

// AvailableSlots returns the candidates whose time is not present in
// booked, preserving candidate order. Membership is exact HH:MM equality.
func AvailableSlots(candidates, booked []string) []string {
	if len(booked) == 0 {
		return candidates
	}

	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	free := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[c]; !ok {
			free = append(free, c)
		}
	}
	return free
}

// ValidateHours checks the invariants of a working-hours config:
// start <= end for each enabled period and a positive interval.
func ValidateHours(hours models.WorkingHours) error {
	if hours.IntervalMinutes <= 0 {
		return fmt.Errorf("interval_minutes must be positive, got %d", hours.IntervalMinutes)
	}
	if hours.MorningEnabled {
		if err := validatePeriod("morning", hours.MorningStart, hours.MorningEnd); err != nil {
			return err
		}
	}
	if hours.AfternoonEnabled {
		if err := validatePeriod("afternoon", hours.AfternoonStart, hours.AfternoonEnd); err != nil {
			return err
		}
	}
	return nil
}

func validatePeriod(name, start, end string) error {
	sh, sm, err := parseClock(start)
	if err != nil {
		return fmt.Errorf("%s start: %w", name, err)
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return fmt.Errorf("%s end: %w", name, err)
	}
	if sh > eh || (sh == eh && sm > em) {
		return fmt.Errorf("%s period starts at %s after its end %s", name, start, end)
	}
	return nil
}

func parseClock(value string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", value)
	}
	return hour, minute, nil
}

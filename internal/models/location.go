package models

import "time"

// WorkingHours describes the bookable periods of a single day for a
// location. Bounds are HH:MM strings; empty bounds fall back to the
// defaults in constants.go.
type WorkingHours struct {
	MorningEnabled   bool   `yaml:"morning_enabled" json:"morning_enabled"`
	MorningStart     string `yaml:"morning_start" json:"morning_start"`
	MorningEnd       string `yaml:"morning_end" json:"morning_end"`
	AfternoonEnabled bool   `yaml:"afternoon_enabled" json:"afternoon_enabled"`
	AfternoonStart   string `yaml:"afternoon_start" json:"afternoon_start"`
	AfternoonEnd     string `yaml:"afternoon_end" json:"afternoon_end"`
	IntervalMinutes  int    `yaml:"interval_minutes" json:"interval_minutes"`
}

// ApplyDefaults fills missing bounds with the standard clinic day.
// Omitted bounds are a fallback policy, not a validation error. A config
// with neither period enabled gets both; disabling a single period is
// left alone.
func (w *WorkingHours) ApplyDefaults() {
	if !w.MorningEnabled && !w.AfternoonEnabled {
		w.MorningEnabled = true
		w.AfternoonEnabled = true
	}
	if w.MorningStart == "" {
		w.MorningStart = DefaultMorningStart
	}
	if w.MorningEnd == "" {
		w.MorningEnd = DefaultMorningEnd
	}
	if w.AfternoonStart == "" {
		w.AfternoonStart = DefaultAfternoonStart
	}
	if w.AfternoonEnd == "" {
		w.AfternoonEnd = DefaultAfternoonEnd
	}
	if w.IntervalMinutes <= 0 {
		w.IntervalMinutes = DefaultIntervalMinutes
	}
}

// Location is a clinic branch. Key holds the normalized form of Name used
// to match bookings entered with or without diacritics.
type Location struct {
	ID        int64        `yaml:"id" json:"id"`
	Name      string       `yaml:"name" json:"name"`
	Key       string       `yaml:"-" json:"-"`
	City      string       `yaml:"city" json:"city"`
	Hours     WorkingHours `yaml:"hours" json:"hours"`
	IsActive  bool         `yaml:"is_active" json:"is_active"`
	CreatedAt time.Time    `yaml:"-" json:"created_at"`
	UpdatedAt time.Time    `yaml:"-" json:"updated_at"`
}

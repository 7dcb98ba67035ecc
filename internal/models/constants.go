package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	DefaultMorningStart    = "08:00"
	DefaultMorningEnd      = "12:00"
	DefaultAfternoonStart  = "14:00"
	DefaultAfternoonEnd    = "18:00"
	DefaultIntervalMinutes = 30
)

const (
	// SlotCacheTTL lifetime of the cached booked-times list per (location, date)
	SlotCacheTTL = 5 * 60 // seconds

	// WorkerQueueSize size of the in-memory sync queue
	WorkerQueueSize = 1000

	// DefaultExportRangeDays default schedule export window
	DefaultExportRangeDays = 7
)

// ActiveStatuses occupy a slot. Cancelled bookings free theirs.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted}

// IsValidStatus reports whether s is a known booking status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

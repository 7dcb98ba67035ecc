package database

import "errors"

var (
	// ErrSlotTaken means a non-cancelled booking already holds the
	// (location, date, time) slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrConcurrentModification means an optimistic version check failed.
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	ErrBookingNotFound  = errors.New("booking not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrPastDate         = errors.New("date is in the past")
	ErrDateTooFar       = errors.New("date is too far in the future")
)

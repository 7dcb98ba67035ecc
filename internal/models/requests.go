package models

import "time"

// BookingRequest carries the user-supplied fields of a booking attempt.
type BookingRequest struct {
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	Comment     string    `json:"comment"`
}

// DaySlots is the availability answer for one location and date.
// Degraded is set when the booked-times lookup failed and the list was
// left unfiltered; the commit-time conflict check remains the safety net.
type DaySlots struct {
	Location string   `json:"location"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
	Degraded bool     `json:"degraded,omitempty"`
}

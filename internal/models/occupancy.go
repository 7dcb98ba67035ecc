package models

import "time"

// DayOccupancy is the cached set of booked times for one location and date.
type DayOccupancy struct {
	LocationKey string    `json:"location_key"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Times       []string  `json:"times"`
	FetchedAt   time.Time `json:"fetched_at"`
}

package models

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	Location    string    `json:"location"`
	LocationKey string    `json:"-"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"` // HH:MM
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	Status      string    `json:"status"` // pending, confirmed, cancelled, completed
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

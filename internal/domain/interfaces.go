package domain

import (
	"context"
	"time"

	"agendavel/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Repository interface {
	GetBookedTimes(ctx context.Context, location string, date time.Time) ([]string, error)
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status string) error
	GetBookingsForDay(ctx context.Context, location string, date time.Time) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]*models.Booking, error)
	GetLocationByName(ctx context.Context, name string) (*models.Location, error)
	GetActiveLocations(ctx context.Context) ([]*models.Location, error)
	UpdateLocationHours(ctx context.Context, name string, hours models.WorkingHours) error
}

// OccupancyCache holds recently fetched booked-times lists. A nil result
// with a nil error is a cache miss.
type OccupancyCache interface {
	GetOccupancy(ctx context.Context, locationKey, date string) (*models.DayOccupancy, error)
	SetOccupancy(ctx context.Context, occupancy *models.DayOccupancy) error
	Invalidate(ctx context.Context, locationKey, date string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SheetsWriter interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
}

// SheetsReconciler rewrites the whole bookings sheet from the database.
// The sync worker runs it periodically to repair drift from dropped or
// dead-lettered tasks.
type SheetsReconciler interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type BookingService interface {
	AvailableSlotsForDay(ctx context.Context, location string, date time.Time) (*models.DaySlots, error)
	CommitBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, version int64) error
	CancelBooking(ctx context.Context, bookingID, version int64) error
	CompleteBooking(ctx context.Context, bookingID, version int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetBookingsForDay(ctx context.Context, location string, date time.Time) ([]*models.Booking, error)
	GetActiveLocations(ctx context.Context) ([]*models.Location, error)
}

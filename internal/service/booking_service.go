package service

import (
	"context"
	"time"

	"agendavel/internal/database"
	"agendavel/internal/domain"
	"agendavel/internal/events"
	"agendavel/internal/models"
	"agendavel/internal/schedule"

	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type BookingService struct {
	repo           domain.Repository
	cache          domain.OccupancyCache
	eventBus       domain.EventPublisher
	syncWorker     domain.SyncWorker
	maxBookingDays int
	logger         *zerolog.Logger
}

func NewBookingService(repo domain.Repository, cache domain.OccupancyCache, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, maxBookingDays int, logger *zerolog.Logger) *BookingService {
	if maxBookingDays <= 0 {
		maxBookingDays = 365
	}
	return &BookingService{
		repo:           repo,
		cache:          cache,
		eventBus:       eventBus,
		syncWorker:     syncWorker,
		maxBookingDays: maxBookingDays,
		logger:         logger,
	}
}

func (s *BookingService) ValidateBookingDate(date time.Time) error {
	if date.Before(time.Now().AddDate(0, 0, -1)) {
		return database.ErrPastDate
	}

	maxDate := time.Now().AddDate(0, 0, s.maxBookingDays)
	if date.After(maxDate) {
		return database.ErrDateTooFar
	}

	return nil
}

// AvailableSlotsForDay returns the location's candidate slots minus the ones
// already booked. If the booked-times lookup fails the full candidate list is
// returned with Degraded set; the commit path still rejects conflicts.
func (s *BookingService) AvailableSlotsForDay(ctx context.Context, location string, date time.Time) (*models.DaySlots, error) {
	loc, err := s.repo.GetLocationByName(ctx, location)
	if err != nil {
		return nil, err
	}

	candidates := schedule.GenerateSlots(loc.Hours)
	result := &models.DaySlots{
		Location: loc.Name,
		Date:     date.Format(dateLayout),
		Slots:    candidates,
	}

	booked, err := s.bookedTimes(ctx, loc.Key, date)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", loc.Name).Str("date", result.Date).Msg("booked times lookup failed, returning unfiltered slots")
		result.Degraded = true
		return result, nil
	}

	result.Slots = schedule.AvailableSlots(candidates, booked)
	return result, nil
}

func (s *BookingService) bookedTimes(ctx context.Context, locationKey string, date time.Time) ([]string, error) {
	dateStr := date.Format(dateLayout)

	if s.cache != nil {
		occupancy, err := s.cache.GetOccupancy(ctx, locationKey, dateStr)
		if err != nil {
			s.logger.Warn().Err(err).Msg("occupancy cache read failed")
		} else if occupancy != nil {
			return occupancy.Times, nil
		}
	}

	times, err := s.repo.GetBookedTimes(ctx, locationKey, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		occupancy := &models.DayOccupancy{
			LocationKey: locationKey,
			Date:        dateStr,
			Times:       times,
			FetchedAt:   time.Now(),
		}
		if err := s.cache.SetOccupancy(ctx, occupancy); err != nil {
			s.logger.Warn().Err(err).Msg("occupancy cache write failed")
		}
	}

	return times, nil
}

// CommitBooking validates the request, then inserts the booking under the
// slot conflict check. Client fields are validated before any store call.
func (s *BookingService) CommitBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	phone, err := schedule.ValidateClient(req.ClientName, req.ClientPhone)
	if err != nil {
		return nil, err
	}

	if err := s.ValidateBookingDate(req.Date); err != nil {
		return nil, err
	}

	loc, err := s.repo.GetLocationByName(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	if !slotExists(schedule.GenerateSlots(loc.Hours), req.Time) {
		return nil, &schedule.ValidationError{Field: "time", Message: "time is not a bookable slot for this location"}
	}

	booking := &models.Booking{
		Location:    loc.Name,
		LocationKey: loc.Key,
		Date:        req.Date,
		Time:        req.Time,
		ClientName:  req.ClientName,
		ClientPhone: phone,
		Status:      models.StatusPending,
		Comment:     req.Comment,
	}

	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateOccupancy(ctx, loc.Key, req.Date)
	s.publishEvent(events.EventBookingCreated, booking)
	s.enqueueSync(ctx, booking, "upsert")

	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusConfirmed, events.EventBookingConfirmed)
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusCancelled, events.EventBookingCancelled)
}

func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusCompleted, events.EventBookingCompleted)
}

func (s *BookingService) transition(ctx context.Context, bookingID, version int64, status, eventType string) error {
	if err := s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, version, status); err != nil {
		return err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		// The status change itself committed; without the booking we
		// cannot invalidate the cache or fan out, so say so loudly.
		s.logger.Warn().Err(err).Int64("booking_id", bookingID).Str("status", status).
			Msg("booking fetch after status change failed, cache invalidation and sync skipped")
		return nil
	}

	// Cancellation frees the slot, so the cached list is stale either way.
	s.invalidateOccupancy(ctx, booking.LocationKey, booking.Date)
	s.publishEvent(eventType, booking)
	s.enqueueSync(ctx, booking, "update_status")

	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// GetBookingByReference looks up a booking by the short reference clients
// receive in their confirmation.
func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return s.repo.GetBookingByReference(ctx, reference)
}

func (s *BookingService) GetBookingsForDay(ctx context.Context, location string, date time.Time) ([]*models.Booking, error) {
	loc, err := s.repo.GetLocationByName(ctx, location)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBookingsForDay(ctx, loc.Key, date)
}

func (s *BookingService) GetActiveLocations(ctx context.Context) ([]*models.Location, error) {
	return s.repo.GetActiveLocations(ctx)
}

func (s *BookingService) invalidateOccupancy(ctx context.Context, locationKey string, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, locationKey, date.Format(dateLayout)); err != nil {
		s.logger.Warn().Err(err).Str("location_key", locationKey).Msg("occupancy cache invalidation failed")
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		Location:    booking.Location,
		Date:        booking.Date,
		Time:        booking.Time,
		ClientName:  booking.ClientName,
		ClientPhone: booking.ClientPhone,
		Status:      booking.Status,
		Comment:     booking.Comment,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, booking *models.Booking, taskType string) {
	if s.syncWorker == nil {
		return
	}

	var status string
	if taskType == "update_status" {
		status = booking.Status
	}

	if err := s.syncWorker.EnqueueTask(ctx, taskType, booking.ID, booking, status); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("sheets enqueue error")
	}
}

func slotExists(slots []string, t string) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

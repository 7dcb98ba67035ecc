package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agendavel/internal/database"
	"agendavel/internal/metrics"
	"agendavel/internal/models"
	"agendavel/internal/schedule"
)

const dateLayout = "2006-01-02"

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (s *HTTPServer) handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	locations, err := s.service.GetActiveLocations(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}

// GET /api/v1/slots/{location}?date=YYYY-MM-DD
func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	location := strings.TrimPrefix(r.URL.Path, "/api/v1/slots/")
	if location == "" || strings.Contains(location, "/") {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slots, err := s.service.AvailableSlotsForDay(r.Context(), location, date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if slots.Degraded {
		metrics.IncDegradedSlotLookup()
	}

	writeJSON(w, http.StatusOK, slots)
}

type createBookingRequest struct {
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	Comment     string `json:"comment"`
}

// POST /api/v1/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	booking, err := s.service.CommitBooking(r.Context(), models.BookingRequest{
		Location:    req.Location,
		Date:        date,
		Time:        req.Time,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Comment:     req.Comment,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, booking)
}

type updateStatusRequest struct {
	Status  string `json:"status"`
	Version int64  `json:"version"`
}

// GET /api/v1/bookings/{id}, GET /api/v1/bookings/ref/{reference} and
// POST /api/v1/bookings/{id}/status
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")

	if ref, ok := strings.CutPrefix(rest, "ref/"); ok {
		s.handleGetBookingByReference(w, r, ref)
		return
	}

	idPart, action, _ := strings.Cut(rest, "/")

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.handleGetBooking(w, r, id)
	case action == "status" && r.Method == http.MethodPost:
		s.handleUpdateStatus(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request, id int64) {
	booking, err := s.service.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBookingByReference(w http.ResponseWriter, r *http.Request, reference string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if reference == "" || strings.Contains(reference, "/") {
		writeError(w, http.StatusBadRequest, "invalid booking reference")
		return
	}

	booking, err := s.service.GetBookingByReference(r.Context(), reference)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var err error
	switch req.Status {
	case models.StatusConfirmed:
		err = s.service.ConfirmBooking(r.Context(), id, req.Version)
	case models.StatusCancelled:
		err = s.service.CancelBooking(r.Context(), id, req.Version)
	case models.StatusCompleted:
		err = s.service.CompleteBooking(r.Context(), id, req.Version)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported status %q", req.Status))
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": req.Status})
}

// GET /api/v1/schedule.xlsx?date=YYYY-MM-DD
func (s *HTTPServer) handleScheduleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	locations, err := s.service.GetActiveLocations(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	bookings := make(map[string][]*models.Booking, len(locations))
	for _, loc := range locations {
		dayBookings, err := s.service.GetBookingsForDay(r.Context(), loc.Name, date)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		for _, b := range dayBookings {
			if b.Status == models.StatusCancelled {
				continue
			}
			bookings[loc.Key] = append(bookings[loc.Key], b)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=agenda_%s.xlsx", date.Format(dateLayout)))

	if err := s.exporter.WriteDaySchedule(w, date, locations, bookings); err != nil {
		s.logger.Error().Err(err).Str("date", date.Format(dateLayout)).Msg("schedule export failed")
	}
}

func parseDateParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Time{}, fmt.Errorf("date query parameter is required")
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *schedule.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": vErr.Message,
			"field": vErr.Field,
		})
	case errors.Is(err, database.ErrSlotTaken):
		metrics.IncBookingConflict()
		writeError(w, http.StatusConflict, "slot is already booked")
	case errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "booking was modified concurrently, refetch and retry")
	case errors.Is(err, database.ErrLocationNotFound):
		writeError(w, http.StatusNotFound, "location not found")
	case errors.Is(err, database.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, database.ErrPastDate):
		writeError(w, http.StatusBadRequest, "date is in the past")
	case errors.Is(err, database.ErrDateTooFar):
		writeError(w, http.StatusBadRequest, "date is too far in the future")
	default:
		s.logger.Error().Err(err).Msg("internal api error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

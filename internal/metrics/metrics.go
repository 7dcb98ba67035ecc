package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agendavel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agendavel",
			Name:      "bookings_created_total",
			Help:      "Bookings committed successfully.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agendavel",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken.",
		},
	)

	degradedSlotLookups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agendavel",
			Name:      "degraded_slot_lookups_total",
			Help:      "Availability responses served unfiltered after a lookup failure.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingConflicts, degradedSlotLookups)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated counts a committed booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingConflict counts a slot conflict rejection.
func IncBookingConflict() {
	bookingConflicts.Inc()
}

// IncDegradedSlotLookup counts an unfiltered availability response.
func IncDegradedSlotLookup() {
	degradedSlotLookups.Inc()
}

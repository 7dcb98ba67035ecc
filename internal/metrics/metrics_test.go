package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated))

	before = testutil.ToFloat64(bookingConflicts)
	IncBookingConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingConflicts))

	before = testutil.ToFloat64(degradedSlotLookups)
	IncDegradedSlotLookup()
	assert.Equal(t, before+1, testutil.ToFloat64(degradedSlotLookups))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/locations"))
	IncHTTP("/api/v1/locations")
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/locations")))
}

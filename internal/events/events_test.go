package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSONDeliversPayload(t *testing.T) {
	bus := NewEventBus()

	var got *Event
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		got = event
		return nil
	})

	payload := BookingEventPayload{BookingID: 7, Location: "São Paulo", Time: "08:30"}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	require.NotNil(t, got)
	assert.Equal(t, EventBookingCreated, got.Type)
	assert.False(t, got.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(got.Payload, &decoded))
	assert.Equal(t, "São Paulo", decoded.Location)
	assert.Equal(t, "08:30", decoded.Time)
}

func TestPublishFansOutInOrder(t *testing.T) {
	bus := NewEventBus()

	var order []string
	bus.Subscribe("event", func(_ *Event) error {
		order = append(order, "first")
		return errors.New("handler failure must not stop delivery")
	})
	bus.Subscribe("event", func(_ *Event) error {
		order = append(order, "second")
		return nil
	})

	bus.Publish(&Event{Type: "event"})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishIgnoresUnknownTypes(t *testing.T) {
	bus := NewEventBus()

	var calls int
	bus.Subscribe(EventBookingConfirmed, func(_ *Event) error {
		calls++
		return nil
	})

	bus.Publish(&Event{Type: "booking_rescheduled"})
	require.NoError(t, bus.PublishJSON("booking_rescheduled", nil))
	assert.Zero(t, calls)
}

func TestPublishJSONMarshalError(t *testing.T) {
	bus := NewEventBus()
	err := bus.PublishJSON(EventBookingCreated, func() {})
	assert.Error(t, err)
}

package notify

import (
	"encoding/json"
	"fmt"

	"agendavel/internal/domain"
	"agendavel/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier forwards booking events to the clinic staff chat. Delivery is
// fire-and-forget: a failed send is logged and never fails the booking.
type Notifier struct {
	sender      domain.TelegramSender
	staffChatID int64
	logger      *zerolog.Logger
}

func NewNotifier(sender domain.TelegramSender, staffChatID int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		staffChatID: staffChatID,
		logger:      logger,
	}
}

// SubscribeTo registers handlers for the booking lifecycle events.
func (n *Notifier) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.handleEvent)
	bus.Subscribe(events.EventBookingConfirmed, n.handleEvent)
	bus.Subscribe(events.EventBookingCancelled, n.handleEvent)
}

func (n *Notifier) handleEvent(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode booking event")
		return err
	}

	text := formatMessage(event.Type, payload)
	if text == "" {
		return nil
	}

	// Publish runs handlers inline on the booking path; send off-thread.
	go func() {
		msg := tgbotapi.NewMessage(n.staffChatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("staff notification failed")
		}
	}()

	return nil
}

func formatMessage(eventType string, p events.BookingEventPayload) string {
	line := fmt.Sprintf("📍 %s\n📅 %s às %s\n👤 %s (%s)",
		p.Location, p.Date.Format("02.01.2006"), p.Time, p.ClientName, p.ClientPhone)
	if p.Comment != "" {
		line += fmt.Sprintf("\n💬 %s", p.Comment)
	}

	switch eventType {
	case events.EventBookingCreated:
		return fmt.Sprintf("🆕 Nova reserva #%d\n%s", p.BookingID, line)
	case events.EventBookingConfirmed:
		return fmt.Sprintf("✅ Reserva #%d confirmada\n%s", p.BookingID, line)
	case events.EventBookingCancelled:
		return fmt.Sprintf("❌ Reserva #%d cancelada\n%s", p.BookingID, line)
	}
	return ""
}

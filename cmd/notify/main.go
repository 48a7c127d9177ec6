package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/glowdesk/salon-bookings/internal/mailer"
	"github.com/glowdesk/salon-bookings/pkg/config"
	"github.com/glowdesk/salon-bookings/pkg/events"
	"github.com/glowdesk/salon-bookings/pkg/logger"
)

// The notify service consumes booking events off NATS and emails customers.
// Delivery is best effort by design: failures are logged and the message is
// dropped, never retried into the API's critical path.
func main() {
	cfg := config.Load()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	m := pickMailer(cfg.Email)

	err = eventBus.QueueSubscribe(events.BookingCreated, "notify", func(msg *events.Message) {
		var event events.BookingCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to decode booking created event", "error", err)
			return
		}

		if err := m.SendBookingCreated(event.CustomerEmail, event.CustomerName, event.SalonName, event.ServiceName, event.ScheduledAt); err != nil {
			logger.Error("Failed to send booking created email", "error", err, "booking_id", event.BookingID)
			return
		}
		logger.Info("Sent booking created email", "booking_id", event.BookingID)
	})
	if err != nil {
		logger.Error("Failed to subscribe", "subject", events.BookingCreated, "error", err)
		os.Exit(1)
	}

	err = eventBus.QueueSubscribe(events.BookingStatusChanged, "notify", func(msg *events.Message) {
		var event events.BookingStatusChangedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to decode status change event", "error", err)
			return
		}

		if err := m.SendStatusChange(event.CustomerEmail, event.CustomerName, event.SalonName, event.NewStatus, event.ScheduledAt); err != nil {
			logger.Error("Failed to send status change email", "error", err, "booking_id", event.BookingID)
			return
		}
		logger.Info("Sent status change email", "booking_id", event.BookingID, "new_status", event.NewStatus)
	})
	if err != nil {
		logger.Error("Failed to subscribe", "subject", events.BookingStatusChanged, "error", err)
		os.Exit(1)
	}

	logger.Info("Notify service listening for booking events")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down notify service...")
}

func pickMailer(cfg config.EmailConfig) mailer.Service {
	switch {
	case cfg.DevMode:
		logger.Info("Using dev mailer (emails logged, not sent)")
		return mailer.NewDevMailer()
	case cfg.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
	}
}

package mailer

import (
	"time"

	"github.com/glowdesk/salon-bookings/pkg/logger"
)

// DevMailer prints emails to the log instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendBookingCreated(toEmail, toName, salonName, serviceName string, scheduledAt time.Time) error {
	logger.Info("[DEV MAIL] Booking confirmation request",
		"to", toEmail,
		"name", toName,
		"salon", salonName,
		"service", serviceName,
		"scheduled_at", scheduledAt.Format(time.RFC3339),
	)
	return nil
}

func (d *DevMailer) SendStatusChange(toEmail, toName, salonName, newStatus string, scheduledAt time.Time) error {
	logger.Info("[DEV MAIL] Booking status update",
		"to", toEmail,
		"name", toName,
		"salon", salonName,
		"status", newStatus,
		"scheduled_at", scheduledAt.Format(time.RFC3339),
	)
	return nil
}

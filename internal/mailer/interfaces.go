package mailer

import "time"

type Service interface {
	SendBookingCreated(toEmail, toName, salonName, serviceName string, scheduledAt time.Time) error
	SendStatusChange(toEmail, toName, salonName, newStatus string, scheduledAt time.Time) error
}

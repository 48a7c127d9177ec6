package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

type Booking struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customer_id"`
	SalonID         int64         `json:"salon_id"`
	ServiceID       int64         `json:"service_id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	Notes           string        `json:"notes"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentIntentID string        `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type CreateBookingRequest struct {
	SalonID     int64     `json:"salon_id"`
	ServiceID   int64     `json:"service_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
}

func (r *CreateBookingRequest) Validate(now time.Time) error {
	if r.SalonID <= 0 {
		return errRequired("salon_id")
	}
	if r.ServiceID <= 0 {
		return errRequired("service_id")
	}
	if r.ScheduledAt.IsZero() {
		return errRequired("scheduled_at")
	}
	if r.ScheduledAt.Before(now) {
		return errScheduledInPast
	}
	return nil
}

// IsCustomerOwner reports whether the given user placed this booking.
func (b *Booking) IsCustomerOwner(userID int64) bool {
	return b.CustomerID == userID
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/internal/payments"
	"github.com/glowdesk/salon-bookings/internal/repository"
	"github.com/glowdesk/salon-bookings/pkg/config"
	"github.com/glowdesk/salon-bookings/pkg/events"
	"github.com/glowdesk/salon-bookings/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, customerID int64, req *domain.CreateBookingRequest, idempotencyKey string) (*CreateBookingResult, error)
	Get(ctx context.Context, id int64, actor domain.Actor) (*domain.Booking, error)
	ListForCustomer(ctx context.Context, customerID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error)
	ListForOwner(ctx context.Context, ownerID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	Transition(ctx context.Context, bookingID int64, requested domain.BookingStatus, actor domain.Actor) (domain.BookingStatus, error)
	MarkDepositPaid(ctx context.Context, bookingID int64, intentID string) error
}

type CreateBookingResult struct {
	Booking             *domain.Booking `json:"booking"`
	PaymentClientSecret string          `json:"payment_client_secret,omitempty"`
}

type bookingService struct {
	bookingRepo     repository.BookingRepository
	salonRepo       repository.SalonRepository
	idempotencyRepo repository.IdempotencyRepository
	payments        payments.Service
	eventBus        events.Publisher
	config          *config.Config
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	salonRepo repository.SalonRepository,
	idempotencyRepo repository.IdempotencyRepository,
	payments payments.Service,
	eventBus events.Publisher,
	config *config.Config,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		salonRepo:       salonRepo,
		idempotencyRepo: idempotencyRepo,
		payments:        payments,
		eventBus:        eventBus,
		config:          config,
	}
}

func (s *bookingService) Create(ctx context.Context, customerID int64, req *domain.CreateBookingRequest, idempotencyKey string) (*CreateBookingResult, error) {
	if err := req.Validate(time.Now()); err != nil {
		return nil, err
	}

	svc, err := s.salonRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc == nil || !svc.Active || svc.SalonID != req.SalonID {
		return nil, ErrNotFound
	}

	// Retried requests with the same Idempotency-Key get the original booking
	// back instead of a duplicate row.
	if idempotencyKey != "" {
		existingID, err := s.idempotencyRepo.CheckOrCreate(ctx, customerID, idempotencyKey, 0)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if existingID > 0 {
			existing, err := s.bookingRepo.GetByID(ctx, existingID)
			if err != nil {
				return nil, err
			}
			return &CreateBookingResult{Booking: existing}, nil
		}
	}

	booking, err := s.bookingRepo.Create(ctx, customerID, req)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if idempotencyKey != "" {
		if _, err := s.idempotencyRepo.CheckOrCreate(ctx, customerID, idempotencyKey, booking.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to store idempotency record", "error", err, "booking_id", booking.ID)
		}
	}

	// Deposit collection is best effort: a payments outage must not block the
	// booking request.
	var clientSecret string
	if s.payments.Enabled() {
		intentID, secret, err := s.payments.CreateDepositIntent(ctx, booking.ID, s.config.Stripe.DepositCents)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to create deposit intent", "error", err, "booking_id", booking.ID)
		} else {
			clientSecret = secret
			booking.PaymentIntentID = intentID
			if err := s.bookingRepo.SetPayment(ctx, booking.ID, domain.PaymentUnpaid, intentID); err != nil {
				logger.ErrorContext(ctx, "Failed to record payment intent", "error", err, "booking_id", booking.ID)
			}
		}
	}

	s.publishCreated(ctx, booking)

	return &CreateBookingResult{Booking: booking, PaymentClientSecret: clientSecret}, nil
}

func (s *bookingService) Get(ctx context.Context, id int64, actor domain.Actor) (*domain.Booking, error) {
	detail, err := s.bookingRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if detail == nil {
		return nil, ErrNotFound
	}

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleOwner:
		if detail.SalonOwnerID != actor.ID {
			return nil, domain.ErrUnauthorized
		}
	case domain.RoleCustomer:
		if !detail.IsCustomerOwner(actor.ID) {
			return nil, domain.ErrUnauthorized
		}
	default:
		return nil, domain.ErrUnauthorized
	}

	return &detail.Booking, nil
}

func (s *bookingService) ListForCustomer(ctx context.Context, customerID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	return s.bookingRepo.ListByCustomer(ctx, customerID, limit, offset, status)
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	salon, err := s.salonRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load salon: %w", err)
	}
	if salon == nil {
		return nil, ErrNotFound
	}
	return s.bookingRepo.ListBySalon(ctx, salon.ID, limit, offset, status)
}

func (s *bookingService) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx, limit, offset)
}

// Transition is the single write path for booking status. It validates the
// request against the lifecycle state machine, commits it with a conditional
// update keyed on the status the request was validated against, and only then
// fires best-effort side effects (refund, notification event). A lost race at
// the conditional update surfaces as ErrInvalidTransition: by the time we
// tried to commit, the precondition no longer held.
func (s *bookingService) Transition(ctx context.Context, bookingID int64, requested domain.BookingStatus, actor domain.Actor) (domain.BookingStatus, error) {
	detail, err := s.bookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("failed to get booking: %w", err)
	}
	if detail == nil {
		return "", ErrNotFound
	}

	next, err := domain.RequestTransition(&detail.Booking, requested, actor, detail.SalonOwnerID)
	if err != nil {
		return "", err
	}

	committed, err := s.bookingRepo.UpdateStatus(ctx, bookingID, detail.Status, next)
	if err != nil {
		return "", fmt.Errorf("failed to update booking status: %w", err)
	}
	if !committed {
		return "", domain.ErrInvalidTransition
	}

	if next == domain.BookingCancelled && detail.PaymentStatus == domain.PaymentDepositPaid {
		s.refundDeposit(ctx, detail)
	}

	s.publishStatusChanged(ctx, detail, next)

	return next, nil
}

// MarkDepositPaid records a deposit payment reported by Stripe. Webhook
// deliveries retry, so a booking already marked paid is a no-op, and an
// intent id that doesn't belong to the booking is rejected.
func (s *bookingService) MarkDepositPaid(ctx context.Context, bookingID int64, intentID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return ErrNotFound
	}
	if booking.PaymentIntentID != "" && booking.PaymentIntentID != intentID {
		return fmt.Errorf("payment intent %s does not match booking %d", intentID, bookingID)
	}
	if booking.PaymentStatus == domain.PaymentDepositPaid {
		return nil
	}

	if err := s.bookingRepo.SetPayment(ctx, bookingID, domain.PaymentDepositPaid, intentID); err != nil {
		return fmt.Errorf("failed to record deposit payment: %w", err)
	}
	return nil
}

func (s *bookingService) refundDeposit(ctx context.Context, detail *repository.BookingDetail) {
	if !s.payments.Enabled() {
		return
	}
	if err := s.payments.RefundDeposit(ctx, detail.PaymentIntentID); err != nil {
		logger.ErrorContext(ctx, "Failed to refund deposit", "error", err, "booking_id", detail.ID)
		return
	}
	if err := s.bookingRepo.SetPayment(ctx, detail.ID, domain.PaymentRefunded, detail.PaymentIntentID); err != nil {
		logger.ErrorContext(ctx, "Failed to record refund", "error", err, "booking_id", detail.ID)
	}
}

func (s *bookingService) publishCreated(ctx context.Context, booking *domain.Booking) {
	detail, err := s.bookingRepo.GetDetail(ctx, booking.ID)
	if err != nil || detail == nil {
		logger.ErrorContext(ctx, "Failed to load booking detail for event", "error", err, "booking_id", booking.ID)
		return
	}

	event := events.BookingCreatedEvent{
		BookingID:     detail.ID,
		CustomerEmail: detail.CustomerEmail,
		CustomerName:  detail.CustomerName,
		SalonName:     detail.SalonName,
		ServiceName:   detail.ServiceName,
		ScheduledAt:   detail.ScheduledAt,
		CreatedAt:     detail.CreatedAt,
	}

	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", detail.ID)
	}
}

func (s *bookingService) publishStatusChanged(ctx context.Context, detail *repository.BookingDetail, next domain.BookingStatus) {
	event := events.BookingStatusChangedEvent{
		BookingID:     detail.ID,
		CustomerEmail: detail.CustomerEmail,
		CustomerName:  detail.CustomerName,
		SalonName:     detail.SalonName,
		OldStatus:     string(detail.Status),
		NewStatus:     string(next),
		ScheduledAt:   detail.ScheduledAt,
		ChangedAt:     time.Now(),
	}

	if err := s.eventBus.Publish(ctx, events.BookingStatusChanged, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish status change event", "error", err, "booking_id", detail.ID)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

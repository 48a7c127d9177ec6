package repository

import (
	"context"
	"time"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, customerID int64, req *domain.CreateBookingRequest) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetDetail(ctx context.Context, id int64) (*BookingDetail, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error)
	ListBySalon(ctx context.Context, salonID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error)
	List(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) (bool, error)
	SetPayment(ctx context.Context, id int64, status domain.PaymentStatus, intentID string) error
}

// BookingDetail carries the joined customer/salon/service fields the
// notification path needs alongside the booking itself.
type BookingDetail struct {
	domain.Booking
	CustomerName  string
	CustomerEmail string
	SalonName     string
	SalonOwnerID  int64
	ServiceName   string
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, customer_id, salon_id, service_id,
scheduled_at, notes, status, payment_status, payment_intent_id,
created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(
		&b.ID, &b.CustomerID, &b.SalonID, &b.ServiceID,
		&b.ScheduledAt, &b.Notes, &b.Status, &b.PaymentStatus, &b.PaymentIntentID,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

func (r *bookingRepository) Create(ctx context.Context, customerID int64, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
		customer_id, salon_id, service_id, scheduled_at, notes, status, payment_status
	) VALUES ($1,$2,$3,$4,$5,'pending','unpaid')
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q,
		customerID, req.SalonID, req.ServiceID, req.ScheduledAt, req.Notes,
	), &b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q, id), &b)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) GetDetail(ctx context.Context, id int64) (*BookingDetail, error) {
	const q = `
		SELECT b.id, b.customer_id, b.salon_id, b.service_id,
		       b.scheduled_at, b.notes, b.status, b.payment_status, b.payment_intent_id,
		       b.created_at, b.updated_at,
		       u.name, u.email, s.name, s.owner_id, sv.name
		FROM bookings b
		JOIN users u ON u.id = b.customer_id
		JOIN salons s ON s.id = b.salon_id
		JOIN salon_services sv ON sv.id = b.service_id
		WHERE b.id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var d BookingDetail
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&d.ID, &d.CustomerID, &d.SalonID, &d.ServiceID,
		&d.ScheduledAt, &d.Notes, &d.Status, &d.PaymentStatus, &d.PaymentIntentID,
		&d.CreatedAt, &d.UpdatedAt,
		&d.CustomerName, &d.CustomerEmail, &d.SalonName, &d.SalonOwnerID, &d.ServiceName,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE customer_id=$1`
	return r.list(ctx, q, customerID, limit, offset, status)
}

func (r *bookingRepository) ListBySalon(ctx context.Context, salonID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE salon_id=$1`
	return r.list(ctx, q, salonID, limit, offset, status)
}

func (r *bookingRepository) list(ctx context.Context, q string, scopeID int64, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	args := []any{scopeID}
	if status != nil {
		q += ` AND status=$2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, *status, limit, offset)
	} else {
		q += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) List(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateStatus commits a status transition with a conditional write: the row
// is updated only while its status still equals the value the transition was
// validated against. Two racing transitions therefore resolve to exactly one
// winner; the loser sees false and must re-read.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) (bool, error) {
	const q = `UPDATE bookings SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, expected, next)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) SetPayment(ctx context.Context, id int64, status domain.PaymentStatus, intentID string) error {
	const q = `UPDATE bookings SET payment_status=$2, payment_intent_id=$3, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, status, intentID)
	return err
}

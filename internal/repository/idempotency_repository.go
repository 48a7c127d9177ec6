package repository

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdempotencyRepository interface {
	// CheckOrCreate looks up key for this customer and returns the booking it
	// was already bound to, or records the binding when bookingID is set. Keys
	// are scoped per customer: the same header value from two different
	// customers names two independent records.
	CheckOrCreate(ctx context.Context, customerID int64, key string, bookingID int64) (existingBookingID int64, err error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type idempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) IdempotencyRepository {
	return &idempotencyRepository{pool: pool}
}

func (r *idempotencyRepository) CheckOrCreate(ctx context.Context, customerID int64, key string, bookingID int64) (int64, error) {
	// Hash customer id + key together: privacy, consistent length, and no
	// cross-customer collisions on a shared header value.
	hasher := sha256.New()
	fmt.Fprintf(hasher, "%d:%s", customerID, key)
	keyHash := fmt.Sprintf("%x", hasher.Sum(nil))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var existingBookingID int64
	const checkQuery = `SELECT booking_id FROM booking_idempotency WHERE key_hash = $1`
	err := r.pool.QueryRow(ctx, checkQuery, keyHash).Scan(&existingBookingID)

	if err == nil {
		return existingBookingID, nil
	}

	if err != pgx.ErrNoRows {
		return 0, err
	}

	if bookingID > 0 {
		const insertQuery = `
			INSERT INTO booking_idempotency (key_hash, booking_id, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key_hash) DO NOTHING`

		expiresAt := time.Now().Add(24 * time.Hour)
		if _, err := r.pool.Exec(ctx, insertQuery, keyHash, bookingID, expiresAt); err != nil {
			return 0, err
		}
	}

	return 0, nil
}

func (r *idempotencyRepository) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	const q = `DELETE FROM booking_idempotency WHERE expires_at < now()`
	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

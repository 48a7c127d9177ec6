// Package seed performs idempotent first-boot initialization. It is safe to
// run on every startup and from multiple instances at once: whether the
// system is already initialized is decided by durable markers in the database
// (the admin row, ON CONFLICT upserts), never by in-process state.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowdesk/salon-bookings/internal/password"
	"github.com/glowdesk/salon-bookings/pkg/config"
	"github.com/glowdesk/salon-bookings/pkg/logger"
)

func Run(ctx context.Context, pool *pgxpool.Pool, cfg config.SeedConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	adminID, created, err := ensureAdmin(ctx, pool, cfg)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	if created {
		logger.Info("Seeded admin user", "email", cfg.AdminEmail)
	}

	if err := ensureDemoSalon(ctx, pool, adminID); err != nil {
		return fmt.Errorf("failed to ensure demo salon: %w", err)
	}

	return nil
}

// ensureAdmin creates the admin account if and only if no row with the
// configured email exists. The row itself is the initialization marker.
func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, cfg config.SeedConfig) (int64, bool, error) {
	var id int64
	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if err != pgx.ErrNoRows {
		return 0, false, err
	}

	hash, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return 0, false, err
	}

	// Another instance may seed concurrently; the unique email constraint
	// makes exactly one insert win, and the loser re-reads.
	const q = `
		INSERT INTO users (role, email, password_hash, name)
		VALUES ('admin', $1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`

	err = pool.QueryRow(ctx, q, cfg.AdminEmail, hash, cfg.AdminName).Scan(&id)
	if err == pgx.ErrNoRows {
		err = pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&id)
		return id, false, err
	}
	if err != nil {
		return 0, false, err
	}

	return id, true, nil
}

// ensureDemoSalon gives a fresh database one browsable salon with a couple of
// services so the customer flow works out of the box. Upserts keyed on the
// natural unique constraints keep repeated runs from duplicating rows.
func ensureDemoSalon(ctx context.Context, pool *pgxpool.Pool, ownerID int64) error {
	var salonID int64
	const salonQ = `
		INSERT INTO salons (owner_id, name, address, phone, description)
		VALUES ($1, 'GlowDesk Studio', '1 Main St', '+1 555 0100', 'Demo salon')
		ON CONFLICT (owner_id, name) DO UPDATE SET updated_at = salons.updated_at
		RETURNING id`
	if err := pool.QueryRow(ctx, salonQ, ownerID).Scan(&salonID); err != nil {
		return err
	}

	services := []struct {
		name     string
		duration int
		price    int64
	}{
		{"Haircut", 45, 4500},
		{"Manicure", 60, 3500},
		{"Color & Style", 120, 12000},
	}

	const serviceQ = `
		INSERT INTO salon_services (salon_id, name, duration_minutes, price_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (salon_id, name) DO NOTHING`

	for _, sv := range services {
		if _, err := pool.Exec(ctx, serviceQ, salonID, sv.name, sv.duration, sv.price); err != nil {
			return err
		}
	}

	return nil
}

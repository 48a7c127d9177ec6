package repository

import (
	"context"
	"time"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SalonRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Salon, error)
	GetByOwner(ctx context.Context, ownerID int64) (*domain.Salon, error)
	List(ctx context.Context, limit, offset int) ([]domain.Salon, error)
	ListServices(ctx context.Context, salonID int64) ([]domain.SalonService, error)
	GetService(ctx context.Context, serviceID int64) (*domain.SalonService, error)
}

type salonRepository struct {
	pool *pgxpool.Pool
}

func NewSalonRepository(pool *pgxpool.Pool) SalonRepository {
	return &salonRepository{pool: pool}
}

const salonCols = `id, owner_id, name, address, phone, description, created_at, updated_at`

func (r *salonRepository) GetByID(ctx context.Context, id int64) (*domain.Salon, error) {
	const q = `SELECT ` + salonCols + ` FROM salons WHERE id=$1`
	return r.getOne(ctx, q, id)
}

func (r *salonRepository) GetByOwner(ctx context.Context, ownerID int64) (*domain.Salon, error) {
	const q = `SELECT ` + salonCols + ` FROM salons WHERE owner_id=$1`
	return r.getOne(ctx, q, ownerID)
}

func (r *salonRepository) getOne(ctx context.Context, q string, arg any) (*domain.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Salon
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.Phone, &s.Description, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *salonRepository) List(ctx context.Context, limit, offset int) ([]domain.Salon, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + salonCols + ` FROM salons ORDER BY name LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salons []domain.Salon
	for rows.Next() {
		var s domain.Salon
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.Phone, &s.Description, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		salons = append(salons, s)
	}

	return salons, rows.Err()
}

func (r *salonRepository) ListServices(ctx context.Context, salonID int64) ([]domain.SalonService, error) {
	const q = `
		SELECT id, salon_id, name, duration_minutes, price_cents, active, created_at
		FROM salon_services
		WHERE salon_id=$1 AND active
		ORDER BY name`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.SalonService
	for rows.Next() {
		var sv domain.SalonService
		if err := rows.Scan(
			&sv.ID, &sv.SalonID, &sv.Name, &sv.DurationMinutes, &sv.PriceCents, &sv.Active, &sv.CreatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, sv)
	}

	return services, rows.Err()
}

func (r *salonRepository) GetService(ctx context.Context, serviceID int64) (*domain.SalonService, error) {
	const q = `
		SELECT id, salon_id, name, duration_minutes, price_cents, active, created_at
		FROM salon_services WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var sv domain.SalonService
	err := r.pool.QueryRow(ctx, q, serviceID).Scan(
		&sv.ID, &sv.SalonID, &sv.Name, &sv.DurationMinutes, &sv.PriceCents, &sv.Active, &sv.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sv, nil
}

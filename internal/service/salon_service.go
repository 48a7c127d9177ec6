package service

import (
	"context"
	"fmt"

	"github.com/glowdesk/salon-bookings/internal/domain"
	"github.com/glowdesk/salon-bookings/internal/repository"
)

type SalonService interface {
	List(ctx context.Context, limit, offset int) ([]domain.Salon, error)
	Get(ctx context.Context, id int64) (*domain.Salon, error)
	ListServices(ctx context.Context, salonID int64) ([]domain.SalonService, error)
}

type salonService struct {
	salonRepo repository.SalonRepository
}

func NewSalonService(salonRepo repository.SalonRepository) SalonService {
	return &salonService{salonRepo: salonRepo}
}

func (s *salonService) List(ctx context.Context, limit, offset int) ([]domain.Salon, error) {
	return s.salonRepo.List(ctx, limit, offset)
}

func (s *salonService) Get(ctx context.Context, id int64) (*domain.Salon, error) {
	salon, err := s.salonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if salon == nil {
		return nil, ErrNotFound
	}
	return salon, nil
}

func (s *salonService) ListServices(ctx context.Context, salonID int64) ([]domain.SalonService, error) {
	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if salon == nil {
		return nil, ErrNotFound
	}
	return s.salonRepo.ListServices(ctx, salonID)
}

package room

import (
	"context"
	"fmt"
	"time"

	"hotel/internal/domain"
	"hotel/internal/repository"
)

const dateLayout = "2006-01-02"

type AvailabilityQuery struct {
	CheckinDate  string `form:"checkin" binding:"required,datetime=2006-01-02"`
	CheckoutDate string `form:"checkout" binding:"required,datetime=2006-01-02"`
}

type ListQuery struct {
	Status domain.RoomStatus `form:"status" binding:"omitempty,oneof=available booked occupied cleaning maintenance"`
}

// Service exposes rooms read-only. Room status is maintained by the booking
// lifecycle and is never written here.
type Service struct {
	rooms *repository.RoomRepository
}

func NewService(rooms *repository.RoomRepository) *Service {
	return &Service{rooms: rooms}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Room, error) {
	return s.rooms.List(ctx, q.Status)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// Available lists rooms free for every night of the stay.
func (s *Service) Available(ctx context.Context, q AvailabilityQuery) ([]domain.Room, error) {
	checkin, err := time.Parse(dateLayout, q.CheckinDate)
	if err != nil {
		return nil, fmt.Errorf("%w: checkin", domain.ErrValidation)
	}
	checkout, err := time.Parse(dateLayout, q.CheckoutDate)
	if err != nil {
		return nil, fmt.Errorf("%w: checkout", domain.ErrValidation)
	}
	if !checkout.After(checkin) {
		return nil, fmt.Errorf("%w: checkout must be after checkin", domain.ErrValidation)
	}
	return s.rooms.ListAvailable(ctx, checkin, checkout)
}

package booking

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel/internal/domain"
)

// SetStatus moves a booking along the lifecycle in its own transaction.
func (s *Service) SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*TransitionResult, error) {
	var res *TransitionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = s.TransitionTx(ctx, tx, bookingID, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(res.From), string(status))
	s.log.WithFields(logrus.Fields{
		"booking_id":     bookingID,
		"from":           res.From,
		"to":             status,
		"released_rooms": res.ReleasedRooms,
	}).Info("booking status changed")
	return res, nil
}

// TransitionTx applies a status change inside the caller's transaction. The
// booking row is locked first; entering a terminal state re-evaluates every
// room the booking referenced.
func (s *Service) TransitionTx(ctx context.Context, tx *gorm.DB, bookingID int64, status domain.BookingStatus) (*TransitionResult, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}

	bookings := s.bookings.WithTx(tx)
	b, err := bookings.GetForUpdate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from := b.Status
	if !from.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, status)
	}

	if err := bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	b.Status = status

	res := &TransitionResult{Booking: b, From: from, ReleasedRooms: []int64{}}
	if status.ReleasesRooms() {
		released, err := s.releaseRooms(ctx, tx, bookingID)
		if err != nil {
			return nil, err
		}
		res.ReleasedRooms = released
	}
	return res, nil
}

// releaseRooms returns each room of the booking to available unless another
// active booking still holds it or housekeeping owns it.
func (s *Service) releaseRooms(ctx context.Context, tx *gorm.DB, bookingID int64) ([]int64, error) {
	bookings := s.bookings.WithTx(tx)
	rooms := s.rooms.WithTx(tx)

	links, err := bookings.ListRooms(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking rooms: %w", err)
	}

	released := []int64{}
	for _, l := range links {
		room, err := rooms.GetForUpdate(ctx, l.RoomID)
		if err != nil {
			return nil, fmt.Errorf("lock room %d: %w", l.RoomID, err)
		}
		if !room.Status.Releasable() {
			continue
		}
		others, err := bookings.CountOtherActive(ctx, l.RoomID, bookingID)
		if err != nil {
			return nil, fmt.Errorf("count active bookings for room %d: %w", l.RoomID, err)
		}
		if others > 0 {
			continue
		}
		if err := rooms.UpdateStatus(ctx, l.RoomID, domain.RoomAvailable); err != nil {
			return nil, fmt.Errorf("release room %d: %w", l.RoomID, err)
		}
		released = append(released, l.RoomID)
	}
	return released, nil
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/pkg/metrics"
	"hotel/internal/repository"
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	rooms    *repository.RoomRepository
	services *repository.ServiceRepository
	users    *repository.UserRepository
	log      *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	rooms *repository.RoomRepository,
	services *repository.ServiceRepository,
	users *repository.UserRepository,
	log *logrus.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		rooms:    rooms,
		services: services,
		users:    users,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Create books the requested rooms for the date range. Room rates are frozen
// from the room type at this moment.
func (s *Service) Create(ctx context.Context, p domain.Principal, req CreateBookingRequest) (*domain.Booking, error) {
	checkin, err := time.Parse(dateLayout, req.CheckinDate)
	if err != nil {
		return nil, fmt.Errorf("%w: checkin_date", domain.ErrValidation)
	}
	checkout, err := time.Parse(dateLayout, req.CheckoutDate)
	if err != nil {
		return nil, fmt.Errorf("%w: checkout_date", domain.ErrValidation)
	}
	if !checkout.After(checkin) {
		return nil, fmt.Errorf("%w: checkout_date must be after checkin_date", domain.ErrValidation)
	}
	if len(req.RoomIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one room is required", domain.ErrValidation)
	}
	if hasDuplicates(req.RoomIDs) {
		return nil, fmt.Errorf("%w: duplicate room id", domain.ErrValidation)
	}

	userID := p.UserID
	if p.Role.IsStaff() && req.UserID > 0 {
		userID = req.UserID
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d does not exist", domain.ErrValidation, userID)
		}
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = domain.SourceWebsite
	}

	b := &domain.Booking{
		UserID:       userID,
		CheckinDate:  datatypes.Date(checkin),
		CheckoutDate: datatypes.Date(checkout),
		Status:       domain.BookingPending,
		Source:       source,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.bookings.WithTx(tx)
		rooms := s.rooms.WithTx(tx)

		rates := make(map[int64]decimal.Decimal, len(req.RoomIDs))
		statuses := make(map[int64]domain.RoomStatus, len(req.RoomIDs))
		for _, roomID := range req.RoomIDs {
			room, err := rooms.GetForUpdate(ctx, roomID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%w: room %d does not exist", domain.ErrValidation, roomID)
				}
				return err
			}
			if room.Status == domain.RoomMaintenance {
				return fmt.Errorf("%w: room %s is under maintenance", domain.ErrRoomUnavailable, room.RoomNumber)
			}
			busy, err := bookings.HasOverlap(ctx, roomID, checkin, checkout)
			if err != nil {
				return err
			}
			if busy {
				return fmt.Errorf("%w: room %s is booked for the selected dates", domain.ErrRoomUnavailable, room.RoomNumber)
			}
			rates[roomID] = room.RoomType.BasePrice
			statuses[roomID] = room.Status
		}

		if err := bookings.Create(ctx, b); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		for _, roomID := range req.RoomIDs {
			link := &domain.BookingRoom{BookingID: b.ID, RoomID: roomID, PricePerNight: rates[roomID]}
			if err := bookings.AddRoom(ctx, link); err != nil {
				return fmt.Errorf("link room %d: %w", roomID, err)
			}
			b.Rooms = append(b.Rooms, *link)

			if statuses[roomID] == domain.RoomAvailable {
				if err := rooms.UpdateStatus(ctx, roomID, domain.RoomBooked); err != nil {
					return fmt.Errorf("mark room %d booked: %w", roomID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"user_id":    userID,
		"rooms":      req.RoomIDs,
	}).Info("booking created")
	return b, nil
}

func (s *Service) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(b.UserID) {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

// List pages bookings newest first. Customers only ever see their own.
func (s *Service) List(ctx context.Context, p domain.Principal, q ListBookingsQuery) ([]domain.Booking, int64, repository.Page, error) {
	if q.Status != "" && !q.Status.IsValid() {
		return nil, 0, repository.Page{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, q.Status)
	}
	f := repository.BookingFilter{Status: q.Status}
	if !p.Role.IsStaff() {
		uid := p.UserID
		f.UserID = &uid
	}
	page := repository.Page{Page: q.Page, Limit: q.Limit}
	out, total, err := s.bookings.List(ctx, f, page)
	return out, total, page, err
}

// Delete removes a booking with its dependent rows. Rooms are not released;
// callers cancel first when room state matters.
func (s *Service) Delete(ctx context.Context, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status.IsActive() {
		s.log.WithFields(logrus.Fields{
			"booking_id": id,
			"status":     b.Status,
		}).Warn("deleting active booking without releasing rooms")
	}
	return s.bookings.Delete(ctx, id)
}

// AddService records consumption of an add-on. The line total is frozen now.
func (s *Service) AddService(ctx context.Context, bookingID int64, req AddServiceRequest) (*domain.ServiceUsage, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrBookingClosed, b.Status)
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: service %d does not exist", domain.ErrValidation, req.ServiceID)
		}
		return nil, err
	}

	usage := &domain.ServiceUsage{
		BookingID:  bookingID,
		ServiceID:  svc.ID,
		Quantity:   qty,
		TotalPrice: svc.Price.Mul(decimal.NewFromInt(int64(qty))),
		UsageTime:  s.now().UTC(),
	}
	if err := s.services.AddUsage(ctx, usage); err != nil {
		return nil, fmt.Errorf("record service usage: %w", err)
	}
	usage.Service = svc
	return usage, nil
}

func (s *Service) ListServices(ctx context.Context, p domain.Principal, bookingID int64) ([]domain.ServiceUsage, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(b.UserID) {
		return nil, domain.ErrForbidden
	}
	return s.services.ListUsages(ctx, bookingID)
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

type BookingFilter struct {
	UserID *int64
	Status domain.BookingStatus
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit("User", "Rooms").Create(b).Error
}

func (r *BookingRepository) AddRoom(ctx context.Context, link *domain.BookingRoom) error {
	return r.db.WithContext(ctx).Omit("Room").Create(link).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

// GetForUpdate reads the booking and locks its row.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&b, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (r *BookingRepository) GetWithDetails(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Rooms.Room.RoomType").
		First(&b, id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter, p Page) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Booking
	err := q.Preload("User").
		Preload("Rooms.Room").
		Order("created_at DESC, id DESC").
		Offset(p.Offset()).
		Limit(p.Size()).
		Find(&out).Error
	return out, total, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatusIf moves the booking to status only while it is still in from.
// The returned flag is false when the guard did not match.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepository) ListRooms(ctx context.Context, bookingID int64) ([]domain.BookingRoom, error) {
	var out []domain.BookingRoom
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("id").Find(&out).Error
	return out, err
}

// CountOtherActive counts active bookings other than excludeID that hold roomID.
func (r *BookingRepository) CountOtherActive(ctx context.Context, roomID, excludeID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.BookingRoom{}).
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id = ?", roomID).
		Where("booking_rooms.booking_id <> ?", excludeID).
		Where("bookings.status IN ?", domain.ActiveBookingStatuses).
		Count(&n).Error
	return n, err
}

// HasOverlap reports whether an active booking holds roomID on any night in
// [checkin, checkout).
func (r *BookingRepository) HasOverlap(ctx context.Context, roomID int64, checkin, checkout time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.BookingRoom{}).
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id = ?", roomID).
		Where("bookings.status IN ?", domain.ActiveBookingStatuses).
		Where("bookings.checkin_date < ? AND bookings.checkout_date > ?", checkout, checkin).
		Count(&n).Error
	return n > 0, err
}

// Delete removes the booking and every row that hangs off it.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&domain.Invoice{}, &domain.Payment{}, &domain.ServiceUsage{}, &domain.BookingRoom{}} {
			if err := tx.Where("booking_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&domain.Booking{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

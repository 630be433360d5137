package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &room, nil
}

// GetForUpdate locks the room row and loads its type for pricing.
func (r *RoomRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&room, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	var rt domain.RoomType
	if err := r.db.WithContext(ctx).First(&rt, room.RoomTypeID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	room.RoomType = &rt
	return &room, nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status domain.RoomStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Room{}).Where("id = ?", id).Update("status", status).Error
}

func (r *RoomRepository) List(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).Preload("RoomType")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Room
	err := q.Order("room_number").Find(&out).Error
	return out, err
}

// ListAvailable returns rooms not under maintenance that no active booking
// holds on any night in [checkin, checkout).
func (r *RoomRepository) ListAvailable(ctx context.Context, checkin, checkout time.Time) ([]domain.Room, error) {
	busy := r.db.Model(&domain.BookingRoom{}).
		Select("booking_rooms.room_id").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("bookings.status IN ?", domain.ActiveBookingStatuses).
		Where("bookings.checkin_date < ? AND bookings.checkout_date > ?", checkout, checkin)

	var out []domain.Room
	err := r.db.WithContext(ctx).
		Preload("RoomType").
		Where("status <> ?", domain.RoomMaintenance).
		Where("id NOT IN (?)", busy).
		Order("room_number").
		Find(&out).Error
	return out, err
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Omit("Booking").Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *PaymentRepository) GetWithBooking(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Preload("Booking").First(&p, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// Latest returns the newest payment for the booking, optionally restricted
// to one status. A missing row yields domain.ErrNotFound.
func (r *PaymentRepository) Latest(ctx context.Context, bookingID int64, status domain.PaymentStatus) (*domain.Payment, error) {
	q := r.db.WithContext(ctx).Where("booking_id = ?", bookingID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var p domain.Payment
	if err := q.Order("created_at DESC, id DESC").First(&p).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *PaymentRepository) List(ctx context.Context, p Page) ([]domain.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(p.Offset()).
		Limit(p.Size()).
		Find(&out).Error
	return out, total, err
}

// CompleteIfPending flips a pending payment to completed. Zero rows affected
// means another delivery already settled it.
func (r *PaymentRepository) CompleteIfPending(ctx context.Context, id int64, transactionCode string, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":       domain.PaymentCompleted,
		"payment_time": at,
	}
	if transactionCode != "" {
		updates["transaction_code"] = transactionCode
	}
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FailIfPending records a gateway failure without touching settled payments.
func (r *PaymentRepository) FailIfPending(ctx context.Context, id int64, transactionCode string) (bool, error) {
	updates := map[string]interface{}{"status": domain.PaymentFailed}
	if transactionCode != "" {
		updates["transaction_code"] = transactionCode
	}
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CompletedBetween returns completed payments whose payment time (or
// creation time when unset) falls in [from, to).
func (r *PaymentRepository) CompletedBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.PaymentCompleted).
		Where("(payment_time >= ? AND payment_time < ?) OR (payment_time IS NULL AND created_at >= ? AND created_at < ?)", from, to, from, to).
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&inv).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("booking_id = ?", bookingID).Count(&n).Error
	return n > 0, err
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Invoice{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const billedBookings = "SELECT booking_id FROM payments UNION SELECT booking_id FROM invoices"

// BilledBookingIDs pages over bookings that have an invoice or at least one
// payment, newest booking first.
func (r *InvoiceRepository) BilledBookingIDs(ctx context.Context, p Page) ([]int64, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Raw("SELECT COUNT(*) FROM (" + billedBookings + ") AS billed").Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Raw("SELECT booking_id FROM ("+billedBookings+") AS billed ORDER BY booking_id DESC LIMIT ? OFFSET ?", p.Size(), p.Offset()).
		Scan(&ids).Error
	return ids, total, err
}

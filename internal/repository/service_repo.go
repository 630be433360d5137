package repository

import (
	"context"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

// ServiceRepository covers the add-on catalogue and its usage ledger.
type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) WithTx(tx *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: tx}
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

func (r *ServiceRepository) AddUsage(ctx context.Context, u *domain.ServiceUsage) error {
	return r.db.WithContext(ctx).Omit("Service").Create(u).Error
}

func (r *ServiceRepository) ListUsages(ctx context.Context, bookingID int64) ([]domain.ServiceUsage, error) {
	var out []domain.ServiceUsage
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("booking_id = ?", bookingID).
		Order("usage_time DESC, id DESC").
		Find(&out).Error
	return out, err
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a billable add-on such as laundry or breakfast.
type Service struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Unit      string          `gorm:"type:varchar(50)" json:"unit,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Service) TableName() string { return "services" }

// ServiceUsage is append-only. TotalPrice is price * quantity at the moment
// of consumption and is never recomputed.
type ServiceUsage struct {
	ID         int64           `gorm:"primaryKey" json:"id"`
	BookingID  int64           `gorm:"index;not null" json:"booking_id"`
	ServiceID  int64           `gorm:"index;not null" json:"service_id"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	UsageTime  time.Time       `json:"usage_time"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (ServiceUsage) TableName() string { return "service_usage" }

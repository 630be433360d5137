package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentVNPay PaymentMethod = "vnpay"
	PaymentMomo  PaymentMethod = "momo"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	BookingID       int64           `gorm:"index;not null" json:"booking_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method          PaymentMethod   `gorm:"type:varchar(10);default:'cash';not null" json:"method"`
	Status          PaymentStatus   `gorm:"type:varchar(20);default:'pending';index;not null" json:"status"`
	TransactionCode *string         `gorm:"type:varchar(100)" json:"transaction_code,omitempty"`
	PaymentTime     *time.Time      `json:"payment_time,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (Payment) TableName() string { return "payments" }

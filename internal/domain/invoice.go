package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is immutable once written. The grand total is never stored.
type Invoice struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	BookingID     int64           `gorm:"uniqueIndex;not null" json:"booking_id"`
	PaymentID     int64           `gorm:"index;not null" json:"payment_id"`
	RoomCharge    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"room_charge"`
	ServiceCharge decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"service_charge"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) TotalAmount() decimal.Decimal {
	return i.RoomCharge.Add(i.ServiceCharge)
}

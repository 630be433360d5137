package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomBooked      RoomStatus = "booked"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

// Releasable reports whether a room in this status goes back to available
// once no active booking references it. Housekeeping states are left alone.
func (s RoomStatus) Releasable() bool {
	return s == RoomBooked || s == RoomOccupied
}

type RoomType struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Capacity    int             `gorm:"not null" json:"capacity"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (RoomType) TableName() string { return "room_types" }

type Room struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	RoomNumber string     `gorm:"type:varchar(10);uniqueIndex;not null" json:"room_number"`
	RoomTypeID int64      `gorm:"index;not null" json:"room_type_id"`
	Status     RoomStatus `gorm:"type:varchar(20);default:'available';not null" json:"status"`
	Image      string     `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

func (Room) TableName() string { return "rooms" }

package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// bookingTransitions is the lifecycle state machine. Terminal states map to
// an empty set.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn:  {BookingCheckedOut},
	BookingCheckedOut: {},
	BookingCancelled:  {},
}

// ActiveBookingStatuses hold their rooms.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(bookingTransitions[s]) == 0
}

func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// ReleasesRooms reports whether entering s should hand the booking's rooms back.
func (s BookingStatus) ReleasesRooms() bool {
	return s == BookingCancelled || s == BookingCheckedOut
}

type BookingSource string

const (
	SourceWebsite BookingSource = "website"
	SourcePhone   BookingSource = "phone"
	SourceWalkIn  BookingSource = "walk_in"
)

type Booking struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	UserID       int64          `gorm:"index;not null" json:"user_id"`
	CheckinDate  datatypes.Date `gorm:"not null" json:"checkin_date"`
	CheckoutDate datatypes.Date `gorm:"not null" json:"checkout_date"`
	Status       BookingStatus  `gorm:"type:varchar(20);default:'pending';index;not null" json:"status"`
	Source       BookingSource  `gorm:"type:varchar(20);default:'website'" json:"source"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	User  *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rooms []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) Checkin() time.Time  { return time.Time(b.CheckinDate) }
func (b *Booking) Checkout() time.Time { return time.Time(b.CheckoutDate) }

// BookingRoom links a booking to a room and freezes the nightly rate at
// booking time.
type BookingRoom struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	BookingID     int64           `gorm:"index;not null" json:"booking_id"`
	RoomID        int64           `gorm:"index;not null" json:"room_id"`
	PricePerNight decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_night"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

func (BookingRoom) TableName() string { return "booking_rooms" }

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

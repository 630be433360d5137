package charge

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel/internal/repository"
)

// Breakdown is the itemised amount owed for a booking. Values are exact;
// rounding happens only at the gateway boundary.
type Breakdown struct {
	BookingID    int64           `json:"booking_id"`
	Nights       int             `json:"nights"`
	RoomTotal    decimal.Decimal `json:"room_total"`
	ServiceTotal decimal.Decimal `json:"service_total"`
	Total        decimal.Decimal `json:"total"`
}

type Calculator struct {
	bookings *repository.BookingRepository
	services *repository.ServiceRepository
}

func NewCalculator(bookings *repository.BookingRepository, services *repository.ServiceRepository) *Calculator {
	return &Calculator{bookings: bookings, services: services}
}

// WithTx returns a calculator that reads through tx.
func (c *Calculator) WithTx(tx *gorm.DB) *Calculator {
	return &Calculator{bookings: c.bookings.WithTx(tx), services: c.services.WithTx(tx)}
}

// Calculate reads the booking, its room links and service usage and prices
// the stay. Missing bookings yield domain.ErrNotFound.
func (c *Calculator) Calculate(ctx context.Context, bookingID int64) (*Breakdown, error) {
	b, err := c.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %d: %w", bookingID, err)
	}

	links, err := c.bookings.ListRooms(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking rooms: %w", err)
	}
	rates := make([]decimal.Decimal, 0, len(links))
	for _, l := range links {
		rates = append(rates, l.PricePerNight)
	}

	usages, err := c.services.ListUsages(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load service usage: %w", err)
	}
	lines := make([]decimal.Decimal, 0, len(usages))
	for _, u := range usages {
		lines = append(lines, u.TotalPrice)
	}

	out := Compute(b.Checkin(), b.Checkout(), rates, lines)
	out.BookingID = bookingID
	return &out, nil
}

// Compute prices a stay from its dates, nightly rates and service line totals.
func Compute(checkin, checkout time.Time, rates, serviceLines []decimal.Decimal) Breakdown {
	nights := Nights(checkin, checkout)
	n := decimal.NewFromInt(int64(nights))

	roomTotal := decimal.Zero
	for _, r := range rates {
		roomTotal = roomTotal.Add(r.Mul(n))
	}

	serviceTotal := decimal.Zero
	for _, s := range serviceLines {
		serviceTotal = serviceTotal.Add(s)
	}

	return Breakdown{
		Nights:       nights,
		RoomTotal:    roomTotal,
		ServiceTotal: serviceTotal,
		Total:        roomTotal.Add(serviceTotal),
	}
}

// Nights is the billable night count: partial days round up and a stay is
// never less than one night.
func Nights(checkin, checkout time.Time) int {
	days := checkout.Sub(checkin).Hours() / 24
	n := int(math.Ceil(days))
	if n < 1 {
		return 1
	}
	return n
}

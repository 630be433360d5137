package payment

import (
	"context"

	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/modules/booking"
	"hotel/internal/pkg/gateway"
)

// bookingLifecycle applies booking status changes inside a settlement transaction.
type bookingLifecycle interface {
	TransitionTx(ctx context.Context, tx *gorm.DB, bookingID int64, status domain.BookingStatus) (*booking.TransitionResult, error)
}

type paymentGateway interface {
	Configured() bool
	BuildPaymentURL(req gateway.PaymentRequest) (string, error)
	Verify(params map[string]string) bool
}

package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/modules/charge"
	"hotel/internal/pkg/metrics"
	"hotel/internal/repository"
)

// View is an invoice as rendered to clients. Virtual views are rebuilt from
// payments and charges for bookings that were never invoiced.
type View struct {
	ID            int64           `json:"id,omitempty"`
	BookingID     int64           `json:"booking_id"`
	PaymentID     int64           `json:"payment_id"`
	RoomCharge    decimal.Decimal `json:"room_charge"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Virtual       bool            `json:"virtual"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	Booking       *domain.Booking `json:"booking,omitempty"`
	Payment       *domain.Payment `json:"payment,omitempty"`
}

type Service struct {
	db                      *gorm.DB
	bookings                *repository.BookingRepository
	payments                *repository.PaymentRepository
	invoices                *repository.InvoiceRepository
	calculator              *charge.Calculator
	allowPlaceholderPayment bool
	log                     *logrus.Logger
	metrics                 *metrics.Metrics
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	payments *repository.PaymentRepository,
	invoices *repository.InvoiceRepository,
	calculator *charge.Calculator,
	allowPlaceholderPayment bool,
	log *logrus.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		db:                      db,
		bookings:                bookings,
		payments:                payments,
		invoices:                invoices,
		calculator:              calculator,
		allowPlaceholderPayment: allowPlaceholderPayment,
		log:                     log,
		metrics:                 m,
	}
}

// Generate writes the single invoice of a booking. The payment it references
// is the latest completed one, else the latest of any status, else a pending
// cash placeholder when that is allowed.
func (s *Service) Generate(ctx context.Context, bookingID int64) (*View, error) {
	var out *View
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.bookings.WithTx(tx)
		invoices := s.invoices.WithTx(tx)
		payments := s.payments.WithTx(tx)

		b, err := bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		exists, err := invoices.ExistsForBooking(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("check invoice: %w", err)
		}
		if exists {
			return domain.ErrDuplicateInvoice
		}

		bd, err := s.calculator.WithTx(tx).Calculate(ctx, bookingID)
		if err != nil {
			return err
		}

		pay, err := resolvePayment(ctx, payments, bookingID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if !s.allowPlaceholderPayment {
				return fmt.Errorf("%w: booking %d has no payment", domain.ErrPaymentRequired, bookingID)
			}
			pay = &domain.Payment{
				BookingID: bookingID,
				Amount:    bd.Total,
				Method:    domain.PaymentCash,
				Status:    domain.PaymentPending,
			}
			if err := payments.Create(ctx, pay); err != nil {
				return fmt.Errorf("create placeholder payment: %w", err)
			}
			s.log.WithField("booking_id", bookingID).Warn("invoice generated against placeholder payment")
		case err != nil:
			return err
		}

		inv := &domain.Invoice{
			BookingID:     bookingID,
			PaymentID:     pay.ID,
			RoomCharge:    bd.RoomTotal,
			ServiceCharge: bd.ServiceTotal,
		}
		if err := invoices.Create(ctx, inv); err != nil {
			if database.IsUniqueViolation(err) {
				return domain.ErrDuplicateInvoice
			}
			return fmt.Errorf("create invoice: %w", err)
		}

		out = storedView(inv, b, pay)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceGenerated()
	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"invoice_id": out.ID,
		"payment_id": out.PaymentID,
		"total":      out.TotalAmount.String(),
	}).Info("invoice generated")
	return out, nil
}

// GetByBooking returns the stored invoice or, when the booking has payments
// but was never invoiced, a virtual one.
func (s *Service) GetByBooking(ctx context.Context, bookingID int64) (*View, error) {
	b, err := s.bookings.GetWithDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoices.GetByBooking(ctx, bookingID)
	switch {
	case err == nil:
		pay, err := s.payments.GetByID(ctx, inv.PaymentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return storedView(inv, b, pay), nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	pay, err := resolvePayment(ctx, s.payments, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invoice for booking %d: %w", bookingID, domain.ErrNotFound)
		}
		return nil, err
	}
	bd, err := s.calculator.Calculate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &View{
		BookingID:     bookingID,
		PaymentID:     pay.ID,
		RoomCharge:    bd.RoomTotal,
		ServiceCharge: bd.ServiceTotal,
		TotalAmount:   bd.Total,
		Virtual:       true,
		Booking:       b,
		Payment:       pay,
	}, nil
}

// List pages over every booking that has an invoice or a payment.
func (s *Service) List(ctx context.Context, q ListQuery) ([]View, int64, repository.Page, error) {
	page := repository.Page{Page: q.Page, Limit: q.Limit}
	ids, total, err := s.invoices.BilledBookingIDs(ctx, page)
	if err != nil {
		return nil, 0, page, err
	}

	out := make([]View, 0, len(ids))
	for _, id := range ids {
		v, err := s.GetByBooking(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, 0, page, err
		}
		out = append(out, *v)
	}
	return out, total, page, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("invoice_id", id).Warn("invoice deleted")
	return nil
}

func resolvePayment(ctx context.Context, payments *repository.PaymentRepository, bookingID int64) (*domain.Payment, error) {
	pay, err := payments.Latest(ctx, bookingID, domain.PaymentCompleted)
	if errors.Is(err, domain.ErrNotFound) {
		return payments.Latest(ctx, bookingID, "")
	}
	return pay, err
}

func storedView(inv *domain.Invoice, b *domain.Booking, pay *domain.Payment) *View {
	created := inv.CreatedAt
	return &View{
		ID:            inv.ID,
		BookingID:     inv.BookingID,
		PaymentID:     inv.PaymentID,
		RoomCharge:    inv.RoomCharge,
		ServiceCharge: inv.ServiceCharge,
		TotalAmount:   inv.TotalAmount(),
		CreatedAt:     &created,
		Booking:       b,
		Payment:       pay,
	}
}

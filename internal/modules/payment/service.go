package payment

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/modules/charge"
	"hotel/internal/pkg/gateway"
	"hotel/internal/pkg/metrics"
	"hotel/internal/repository"
)

type Service struct {
	db         *gorm.DB
	bookings   *repository.BookingRepository
	payments   *repository.PaymentRepository
	calculator *charge.Calculator
	lifecycle  bookingLifecycle
	gateway    paymentGateway
	log        *logrus.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	payments *repository.PaymentRepository,
	calculator *charge.Calculator,
	lifecycle bookingLifecycle,
	gw paymentGateway,
	log *logrus.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		db:         db,
		bookings:   bookings,
		payments:   payments,
		calculator: calculator,
		lifecycle:  lifecycle,
		gateway:    gw,
		log:        log,
		metrics:    m,
		now:        time.Now,
	}
}

// InitiateManualSettlement settles the booking in cash and checks it out.
// The payment, the status change and room release commit together.
func (s *Service) InitiateManualSettlement(ctx context.Context, bookingID int64) (*ManualSettlementResult, error) {
	var out ManualSettlementResult
	var from domain.BookingStatus

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.lifecycle.TransitionTx(ctx, tx, bookingID, domain.BookingCheckedOut)
		if err != nil {
			return err
		}
		from = res.From

		bd, err := s.calculator.WithTx(tx).Calculate(ctx, bookingID)
		if err != nil {
			return err
		}

		paidAt := s.now().UTC()
		p := &domain.Payment{
			BookingID:   bookingID,
			Amount:      bd.Total,
			Method:      domain.PaymentCash,
			Status:      domain.PaymentCompleted,
			PaymentTime: &paidAt,
		}
		if err := s.payments.WithTx(tx).Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		out = ManualSettlementResult{Payment: p, Booking: res.Booking, Breakdown: bd}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(from), string(domain.BookingCheckedOut))
	s.metrics.Settlement(string(domain.PaymentCash))
	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"payment_id": out.Payment.ID,
		"amount":     out.Payment.Amount.String(),
	}).Info("manual settlement completed")
	return &out, nil
}

// InitiateGatewaySettlement records a pending gateway payment and returns the
// signed URL the customer is redirected to. The booking is not touched until
// the gateway notifies us.
func (s *Service) InitiateGatewaySettlement(ctx context.Context, p domain.Principal, bookingID int64, clientIP string) (*GatewaySettlementResult, error) {
	if !s.gateway.Configured() {
		return nil, gateway.ErrMissingCredentials
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(b.UserID) {
		return nil, domain.ErrForbidden
	}
	if b.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrBookingClosed, b.Status)
	}

	bd, err := s.calculator.Calculate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	amount, err := gateway.NormalizeAmount(bd.Total)
	if err != nil {
		return nil, err
	}

	pay := &domain.Payment{
		BookingID: bookingID,
		Amount:    decimal.NewFromInt(amount),
		Method:    domain.PaymentVNPay,
		Status:    domain.PaymentPending,
	}
	if err := s.payments.Create(ctx, pay); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	payURL, err := s.gateway.BuildPaymentURL(gateway.PaymentRequest{
		TxnRef:    strconv.FormatInt(pay.ID, 10),
		Amount:    amount,
		OrderInfo: fmt.Sprintf("Thanh toan booking %d", bookingID),
		ClientIP:  clientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("build payment url: %w", err)
	}

	s.metrics.Settlement(string(domain.PaymentVNPay))
	s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"payment_id": pay.ID,
		"amount":     amount,
	}).Info("gateway settlement initiated")
	return &GatewaySettlementResult{PaymentID: pay.ID, PaymentURL: payURL, Amount: amount}, nil
}

// GetStatus reports the settlement state of a payment for polling clients.
func (s *Service) GetStatus(ctx context.Context, p domain.Principal, paymentID int64) (*StatusResult, error) {
	pay, err := s.payments.GetWithBooking(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if pay.Booking != nil && !p.CanAccess(pay.Booking.UserID) {
		return nil, domain.ErrForbidden
	}
	return &StatusResult{
		PaymentID: pay.ID,
		BookingID: pay.BookingID,
		Status:    stateOf(pay.Status),
		Amount:    pay.Amount,
	}, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Payment, int64, repository.Page, error) {
	page := repository.Page{Page: q.Page, Limit: q.Limit}
	out, total, err := s.payments.List(ctx, page)
	return out, total, page, err
}

func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.GetWithBooking(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("payment_id", id).Warn("payment deleted")
	return nil
}

// Stats totals completed payments of a calendar year by month and quarter.
// Months without revenue are omitted; all four quarters are always present.
func (s *Service) Stats(ctx context.Context, year int) (*Stats, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	paid, err := s.payments.CompletedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load completed payments: %w", err)
	}

	months := map[int]decimal.Decimal{}
	var quarters [4]decimal.Decimal
	for _, p := range paid {
		at := p.CreatedAt
		if p.PaymentTime != nil {
			at = *p.PaymentTime
		}
		m := int(at.UTC().Month())
		months[m] = months[m].Add(p.Amount)
		quarters[(m-1)/3] = quarters[(m-1)/3].Add(p.Amount)
	}

	out := &Stats{Year: year, Months: []MonthTotal{}, Quarters: make([]QuarterTotal, 0, 4)}
	for m, total := range months {
		out.Months = append(out.Months, MonthTotal{Month: m, Total: total})
	}
	sort.Slice(out.Months, func(i, j int) bool { return out.Months[i].Month < out.Months[j].Month })
	for i, total := range quarters {
		out.Quarters = append(out.Quarters, QuarterTotal{Quarter: fmt.Sprintf("Q%d", i+1), Total: total})
	}
	return out, nil
}

package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/pkg/gateway"
)

var errAlreadySettled = errors.New("payment already settled")

// ReconcileServerNotification applies a signed gateway notification. It is
// the only path that settles a gateway payment. Every outcome, including
// internal failures, is reported through the returned Ack.
func (s *Service) ReconcileServerNotification(ctx context.Context, params map[string]string) (ack Ack) {
	entry := s.log.WithField("txn_ref", params["vnp_TxnRef"])
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", fmt.Sprint(r)).Error("gateway notification panicked")
			ack = ackUnknownError
		}
		s.metrics.GatewayAck(ack.RspCode)
		entry.WithField("rsp_code", ack.RspCode).Info("gateway notification handled")
	}()

	err := s.applyNotification(ctx, entry, params)
	ack = ackFor(err)
	switch ack.RspCode {
	case CodeSuccess, CodeAlreadyConfirmed:
	case CodeUnknownError:
		entry.WithError(err).Error("gateway notification failed")
	default:
		entry.WithError(err).Warn("gateway notification rejected")
	}
	return ack
}

func ackFor(err error) Ack {
	switch {
	case err == nil:
		return ackSuccess
	case errors.Is(err, domain.ErrSignatureInvalid):
		return ackInvalidSignature
	case errors.Is(err, domain.ErrAmountMismatch):
		return ackInvalidAmount
	case errors.Is(err, domain.ErrNotFound):
		return ackOrderNotFound
	case errors.Is(err, errAlreadySettled):
		return ackAlreadyConfirmed
	default:
		return ackUnknownError
	}
}

func (s *Service) applyNotification(ctx context.Context, entry *logrus.Entry, params map[string]string) error {
	if !s.gateway.Verify(params) {
		return domain.ErrSignatureInvalid
	}

	n, err := gateway.ParseNotification(params)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAmountMismatch, err)
	}
	paymentID, ok := n.PaymentID()
	if !ok {
		return fmt.Errorf("%w: txn ref %q", domain.ErrNotFound, n.TxnRef)
	}

	pay, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	// Any settled attempt acks 02, not only completed ones.
	if pay.Status != domain.PaymentPending {
		return fmt.Errorf("%w: payment is %s", errAlreadySettled, pay.Status)
	}
	if !decimal.NewFromInt(n.Amount).Equal(pay.Amount.Mul(decimal.NewFromInt(100))) {
		return fmt.Errorf("%w: notified %d, expected %s x 100", domain.ErrAmountMismatch, n.Amount, pay.Amount)
	}

	if !n.Succeeded() {
		return s.failGatewayPayment(ctx, entry, pay, n)
	}
	return s.completeGatewayPayment(ctx, entry, pay, n)
}

// completeGatewayPayment marks pay completed only if it is still pending and
// advances a pending booking to confirmed in the same transaction.
func (s *Service) completeGatewayPayment(ctx context.Context, entry *logrus.Entry, pay *domain.Payment, n gateway.Notification) error {
	var confirmed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.payments.WithTx(tx).CompleteIfPending(ctx, pay.ID, n.TransactionNo, s.now().UTC())
		if err != nil {
			return fmt.Errorf("complete payment: %w", err)
		}
		if !changed {
			return errAlreadySettled
		}
		confirmed, err = s.bookings.WithTx(tx).UpdateStatusIf(ctx, pay.BookingID, domain.BookingPending, domain.BookingConfirmed)
		return err
	})
	if err != nil {
		return err
	}

	if confirmed {
		s.metrics.Transition(string(domain.BookingPending), string(domain.BookingConfirmed))
	}
	entry.WithFields(logrus.Fields{
		"payment_id":        pay.ID,
		"booking_id":        pay.BookingID,
		"booking_confirmed": confirmed,
	}).Info("gateway payment completed")
	return nil
}

func (s *Service) failGatewayPayment(ctx context.Context, entry *logrus.Entry, pay *domain.Payment, n gateway.Notification) error {
	changed, err := s.payments.FailIfPending(ctx, pay.ID, n.TransactionNo)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	if !changed {
		return errAlreadySettled
	}
	entry.WithFields(logrus.Fields{
		"payment_id":    pay.ID,
		"response_code": n.ResponseCode,
	}).Info("gateway payment failed")
	return nil
}

// ReconcileBrowserRedirect verifies a customer's return from the gateway and
// reports the payment as currently stored. It never writes.
func (s *Service) ReconcileBrowserRedirect(ctx context.Context, params map[string]string) (*RedirectResult, error) {
	if !s.gateway.Verify(params) {
		return &RedirectResult{Code: CodeInvalidSignature, Status: StateFailed}, nil
	}

	n, err := gateway.ParseNotification(params)
	if err != nil {
		return &RedirectResult{Code: CodeInvalidAmount, Status: StateFailed}, nil
	}
	paymentID, ok := n.PaymentID()
	if !ok {
		return &RedirectResult{Code: CodeOrderNotFound, Status: StateFailed}, nil
	}

	pay, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &RedirectResult{Code: CodeOrderNotFound, Status: StateFailed, PaymentID: paymentID}, nil
		}
		return nil, err
	}
	return &RedirectResult{Code: n.ResponseCode, Status: stateOf(pay.Status), PaymentID: pay.ID}, nil
}

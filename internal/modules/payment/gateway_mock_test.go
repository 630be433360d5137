package payment

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel/internal/domain"
	"hotel/internal/modules/booking"
	"hotel/internal/modules/charge"
	"hotel/internal/pkg/gateway"
	"hotel/internal/repository"
	"hotel/internal/testutil"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockGateway) BuildPaymentURL(req gateway.PaymentRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Verify(params map[string]string) bool {
	return m.Called(params).Bool(0)
}

func TestInitiateGatewaySettlement_PassesPaymentToGateway(t *testing.T) {
	db := testutil.NewDB(t)
	bookings := repository.NewBookingRepository(db)
	services := repository.NewServiceRepository(db)
	payments := repository.NewPaymentRepository(db)
	lifecycle := booking.NewService(db, bookings, repository.NewRoomRepository(db), services,
		repository.NewUserRepository(db), testutil.Logger(), nil)

	gw := new(MockGateway)
	svc := NewService(db, bookings, payments, charge.NewCalculator(bookings, services), lifecycle, gw, testutil.Logger(), nil)

	guest := testutil.CreateUser(t, db, domain.RoleUser)
	b := testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-02", domain.BookingPending, "700000",
		testutil.CreateRoom(t, db, "201", "700000", domain.RoomBooked))
	p := domain.Principal{UserID: guest.ID, Role: domain.RoleUser}

	gw.On("Configured").Return(true)
	gw.On("BuildPaymentURL", mock.MatchedBy(func(req gateway.PaymentRequest) bool {
		return req.Amount == 700000 && req.ClientIP == "10.0.0.7" && req.TxnRef != ""
	})).Return("https://pay.example/redirect", nil).Once()

	res, err := svc.InitiateGatewaySettlement(context.Background(), p, b.ID, "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect", res.PaymentURL)

	req := gw.Calls[1].Arguments.Get(0).(gateway.PaymentRequest)
	assert.Equal(t, strconv.FormatInt(res.PaymentID, 10), req.TxnRef)
	assert.Equal(t, domain.PaymentPending, testutil.ReloadPayment(t, db, res.PaymentID).Status)
	gw.AssertExpectations(t)
}

func TestInitiateGatewaySettlement_GatewayErrors(t *testing.T) {
	db := testutil.NewDB(t)
	bookings := repository.NewBookingRepository(db)
	services := repository.NewServiceRepository(db)
	lifecycle := booking.NewService(db, bookings, repository.NewRoomRepository(db), services,
		repository.NewUserRepository(db), testutil.Logger(), nil)

	guest := testutil.CreateUser(t, db, domain.RoleUser)
	b := testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-02", domain.BookingPending, "700000",
		testutil.CreateRoom(t, db, "202", "700000", domain.RoomBooked))
	p := domain.Principal{UserID: guest.ID, Role: domain.RoleUser}

	t.Run("not configured", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Configured").Return(false)
		svc := NewService(db, bookings, repository.NewPaymentRepository(db), charge.NewCalculator(bookings, services),
			lifecycle, gw, testutil.Logger(), nil)

		_, err := svc.InitiateGatewaySettlement(context.Background(), p, b.ID, "")
		assert.ErrorIs(t, err, gateway.ErrMissingCredentials)
		gw.AssertNotCalled(t, "BuildPaymentURL", mock.Anything)
	})

	t.Run("url build fails", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("Configured").Return(true)
		gw.On("BuildPaymentURL", mock.Anything).Return("", errors.New("boom"))
		svc := NewService(db, bookings, repository.NewPaymentRepository(db), charge.NewCalculator(bookings, services),
			lifecycle, gw, testutil.Logger(), nil)

		_, err := svc.InitiateGatewaySettlement(context.Background(), p, b.ID, "")
		assert.ErrorContains(t, err, "build payment url")
		gw.AssertExpectations(t)
	})
}

func TestReconcileServerNotification_UsesGatewayVerifier(t *testing.T) {
	db := testutil.NewDB(t)
	bookings := repository.NewBookingRepository(db)
	services := repository.NewServiceRepository(db)
	gw := new(MockGateway)
	svc := NewService(db, bookings, repository.NewPaymentRepository(db), charge.NewCalculator(bookings, services),
		nil, gw, testutil.Logger(), nil)

	params := map[string]string{"vnp_TxnRef": "1", "vnp_Amount": "100"}
	gw.On("Verify", params).Return(false).Once()

	ack := svc.ReconcileServerNotification(context.Background(), params)
	assert.Equal(t, CodeInvalidSignature, ack.RspCode)
	gw.AssertExpectations(t)
}

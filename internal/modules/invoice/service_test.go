package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/modules/charge"
	"hotel/internal/repository"
	"hotel/internal/testutil"
)

func newTestService(t *testing.T, allowPlaceholder bool) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	bookings := repository.NewBookingRepository(db)
	services := repository.NewServiceRepository(db)
	svc := NewService(db, bookings, repository.NewPaymentRepository(db), repository.NewInvoiceRepository(db),
		charge.NewCalculator(bookings, services), allowPlaceholder, testutil.Logger(), nil)
	return svc, db
}

// stay is a two night booking at 1,500,000 with 300,000 of services.
func stay(t *testing.T, db *gorm.DB) *domain.Booking {
	t.Helper()
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "1500000", domain.RoomAvailable)
	b := testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-03", domain.BookingCheckedOut, "1500000", room)
	testutil.AddUsage(t, db, b.ID, testutil.CreateService(t, db, "Dinner", "150000"), 2)
	return b
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestGenerate_ExactlyOnce(t *testing.T) {
	svc, db := newTestService(t, true)
	b := stay(t, db)
	completed := testutil.CreatePayment(t, db, b.ID, "3300000", domain.PaymentCash, domain.PaymentCompleted)
	testutil.CreatePayment(t, db, b.ID, "3300000", domain.PaymentVNPay, domain.PaymentFailed)
	ctx := context.Background()

	v, err := svc.Generate(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, v.Virtual)
	assert.Equal(t, completed.ID, v.PaymentID)
	assert.True(t, testutil.Money("3000000").Equal(v.RoomCharge))
	assert.True(t, testutil.Money("300000").Equal(v.ServiceCharge))
	assert.True(t, testutil.Money("3300000").Equal(v.TotalAmount))

	_, err = svc.Generate(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoice)
	assert.EqualValues(t, 1, countRows(t, db, &domain.Invoice{}))
}

func TestGenerate_FallsBackToLatestPaymentOfAnyStatus(t *testing.T) {
	svc, db := newTestService(t, true)
	b := stay(t, db)
	testutil.CreatePayment(t, db, b.ID, "3300000", domain.PaymentVNPay, domain.PaymentFailed)
	latest := testutil.CreatePayment(t, db, b.ID, "3300000", domain.PaymentVNPay, domain.PaymentPending)

	v, err := svc.Generate(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, v.PaymentID)
	assert.EqualValues(t, 2, countRows(t, db, &domain.Payment{}))
}

func TestGenerate_PlaceholderPayment(t *testing.T) {
	svc, db := newTestService(t, true)
	b := stay(t, db)

	v, err := svc.Generate(context.Background(), b.ID)
	require.NoError(t, err)

	p := testutil.ReloadPayment(t, db, v.PaymentID)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, domain.PaymentCash, p.Method)
	assert.True(t, testutil.Money("3300000").Equal(p.Amount))
}

func TestGenerate_PaymentRequiredWhenPlaceholderDisabled(t *testing.T) {
	svc, db := newTestService(t, false)
	b := stay(t, db)

	_, err := svc.Generate(context.Background(), b.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentRequired)
	assert.Zero(t, countRows(t, db, &domain.Payment{}))
	assert.Zero(t, countRows(t, db, &domain.Invoice{}))
}

func TestGenerate_MissingBooking(t *testing.T) {
	svc, _ := newTestService(t, true)
	_, err := svc.Generate(context.Background(), 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByBooking_VirtualAndStored(t *testing.T) {
	svc, db := newTestService(t, true)
	b := stay(t, db)
	ctx := context.Background()

	_, err := svc.GetByBooking(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p := testutil.CreatePayment(t, db, b.ID, "3300000", domain.PaymentVNPay, domain.PaymentCompleted)
	v, err := svc.GetByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, v.Virtual)
	assert.Zero(t, v.ID)
	assert.Equal(t, p.ID, v.PaymentID)
	assert.True(t, testutil.Money("3300000").Equal(v.TotalAmount))
	assert.Zero(t, countRows(t, db, &domain.Invoice{}))

	_, err = svc.Generate(ctx, b.ID)
	require.NoError(t, err)
	v, err = svc.GetByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, v.Virtual)
	assert.NotZero(t, v.ID)
	require.NotNil(t, v.Payment)
	assert.Equal(t, p.ID, v.Payment.ID)
}

func TestList_CoversInvoicedAndPaidBookings(t *testing.T) {
	svc, db := newTestService(t, true)
	invoiced := stay(t, db)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "202", "800000", domain.RoomAvailable)
	paid := testutil.CreateBooking(t, db, guest.ID, "2025-12-05", "2025-12-06", domain.BookingCheckedOut, "800000", room)
	testutil.CreateBooking(t, db, guest.ID, "2025-12-07", "2025-12-08", domain.BookingPending, "800000", room)
	testutil.CreatePayment(t, db, paid.ID, "800000", domain.PaymentCash, domain.PaymentCompleted)
	ctx := context.Background()

	_, err := svc.Generate(ctx, invoiced.ID)
	require.NoError(t, err)

	items, total, _, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	byBooking := map[int64]View{}
	for _, v := range items {
		byBooking[v.BookingID] = v
	}
	assert.False(t, byBooking[invoiced.ID].Virtual)
	assert.True(t, byBooking[paid.ID].Virtual)
	assert.True(t, testutil.Money("800000").Equal(byBooking[paid.ID].TotalAmount))
}

func TestDelete(t *testing.T) {
	svc, db := newTestService(t, true)
	b := stay(t, db)
	ctx := context.Background()

	v, err := svc.Generate(ctx, b.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, v.ID))
	assert.ErrorIs(t, svc.Delete(ctx, v.ID), domain.ErrNotFound)

	// a fresh invoice may be generated after deletion
	_, err = svc.Generate(ctx, b.ID)
	assert.NoError(t, err)
}

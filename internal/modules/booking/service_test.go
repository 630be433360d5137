package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel/internal/domain"
	"hotel/internal/repository"
	"hotel/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(
		db,
		repository.NewBookingRepository(db),
		repository.NewRoomRepository(db),
		repository.NewServiceRepository(db),
		repository.NewUserRepository(db),
		testutil.Logger(),
		nil,
	)
	return svc, db
}

func TestCreate_SnapshotsRatesAndBooksRooms(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	r1 := testutil.CreateRoom(t, db, "101", "1000000", domain.RoomAvailable)
	r2 := testutil.CreateRoom(t, db, "102", "750000.50", domain.RoomAvailable)

	b, err := svc.Create(ctx, domain.Principal{UserID: guest.ID, Role: domain.RoleUser}, CreateBookingRequest{
		CheckinDate:  "2025-12-01",
		CheckoutDate: "2025-12-03",
		RoomIDs:      []int64{r1.ID, r2.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, domain.SourceWebsite, b.Source)
	assert.Equal(t, guest.ID, b.UserID)
	require.Len(t, b.Rooms, 2)
	assert.True(t, testutil.Money("1000000").Equal(b.Rooms[0].PricePerNight))
	assert.True(t, testutil.Money("750000.50").Equal(b.Rooms[1].PricePerNight))

	assert.Equal(t, domain.RoomBooked, testutil.ReloadRoom(t, db, r1.ID).Status)
	assert.Equal(t, domain.RoomBooked, testutil.ReloadRoom(t, db, r2.ID).Status)

	// later price changes do not touch the snapshot
	require.NoError(t, db.Model(&domain.RoomType{}).Where("id = ?", r1.RoomTypeID).Update("base_price", testutil.Money("2000000")).Error)
	stored, err := svc.Get(ctx, domain.Principal{UserID: guest.ID, Role: domain.RoleUser}, b.ID)
	require.NoError(t, err)
	assert.True(t, testutil.Money("1000000").Equal(stored.Rooms[0].PricePerNight))
}

func TestCreate_CustomerCannotBookForSomeoneElse(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	other := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomAvailable)

	b, err := svc.Create(context.Background(), domain.Principal{UserID: guest.ID, Role: domain.RoleUser}, CreateBookingRequest{
		UserID:       other.ID,
		CheckinDate:  "2025-12-01",
		CheckoutDate: "2025-12-02",
		RoomIDs:      []int64{room.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, b.UserID)
}

func TestCreate_StaffBooksOnBehalfOfGuest(t *testing.T) {
	svc, db := newTestService(t)
	staff := testutil.CreateUser(t, db, domain.RoleStaff)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomAvailable)

	b, err := svc.Create(context.Background(), domain.Principal{UserID: staff.ID, Role: domain.RoleStaff}, CreateBookingRequest{
		UserID:       guest.ID,
		CheckinDate:  "2025-12-01",
		CheckoutDate: "2025-12-02",
		RoomIDs:      []int64{room.ID},
		Source:       domain.SourcePhone,
	})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, b.UserID)
	assert.Equal(t, domain.SourcePhone, b.Source)
}

func TestCreate_RejectsOverlap(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomBooked)
	testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-05", domain.BookingConfirmed, "500000", room)
	p := domain.Principal{UserID: guest.ID, Role: domain.RoleUser}

	_, err := svc.Create(context.Background(), p, CreateBookingRequest{
		CheckinDate:  "2025-12-04",
		CheckoutDate: "2025-12-06",
		RoomIDs:      []int64{room.ID},
	})
	assert.ErrorIs(t, err, domain.ErrRoomUnavailable)

	// back-to-back stays share the turnover day
	_, err = svc.Create(context.Background(), p, CreateBookingRequest{
		CheckinDate:  "2025-12-05",
		CheckoutDate: "2025-12-06",
		RoomIDs:      []int64{room.ID},
	})
	assert.NoError(t, err)
}

func TestCreate_CancelledBookingsDoNotBlock(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomAvailable)
	testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-05", domain.BookingCancelled, "500000", room)

	_, err := svc.Create(context.Background(), domain.Principal{UserID: guest.ID, Role: domain.RoleUser}, CreateBookingRequest{
		CheckinDate:  "2025-12-02",
		CheckoutDate: "2025-12-03",
		RoomIDs:      []int64{room.ID},
	})
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomAvailable)
	broken := testutil.CreateRoom(t, db, "102", "500000", domain.RoomMaintenance)
	p := domain.Principal{UserID: guest.ID, Role: domain.RoleUser}

	cases := []struct {
		name string
		req  CreateBookingRequest
		want error
	}{
		{"checkout before checkin", CreateBookingRequest{CheckinDate: "2025-12-03", CheckoutDate: "2025-12-01", RoomIDs: []int64{room.ID}}, domain.ErrValidation},
		{"same day", CreateBookingRequest{CheckinDate: "2025-12-03", CheckoutDate: "2025-12-03", RoomIDs: []int64{room.ID}}, domain.ErrValidation},
		{"bad date", CreateBookingRequest{CheckinDate: "03/12/2025", CheckoutDate: "2025-12-04", RoomIDs: []int64{room.ID}}, domain.ErrValidation},
		{"no rooms", CreateBookingRequest{CheckinDate: "2025-12-01", CheckoutDate: "2025-12-02"}, domain.ErrValidation},
		{"duplicate rooms", CreateBookingRequest{CheckinDate: "2025-12-01", CheckoutDate: "2025-12-02", RoomIDs: []int64{room.ID, room.ID}}, domain.ErrValidation},
		{"unknown room", CreateBookingRequest{CheckinDate: "2025-12-01", CheckoutDate: "2025-12-02", RoomIDs: []int64{9999}}, domain.ErrValidation},
		{"maintenance", CreateBookingRequest{CheckinDate: "2025-12-01", CheckoutDate: "2025-12-02", RoomIDs: []int64{broken.ID}}, domain.ErrRoomUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), p, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var n int64
	db.Model(&domain.Booking{}).Count(&n)
	assert.Zero(t, n)
	assert.Equal(t, domain.RoomAvailable, testutil.ReloadRoom(t, db, room.ID).Status)
}

func TestGet_ForeignBookingForbidden(t *testing.T) {
	svc, db := newTestService(t)
	owner := testutil.CreateUser(t, db, domain.RoleUser)
	other := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomBooked)
	b := testutil.CreateBooking(t, db, owner.ID, "2025-12-01", "2025-12-02", domain.BookingPending, "500000", room)

	_, err := svc.Get(context.Background(), domain.Principal{UserID: other.ID, Role: domain.RoleUser}, b.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Get(context.Background(), domain.Principal{UserID: 99, Role: domain.RoleStaff}, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.ID, got.User.ID)
	require.Len(t, got.Rooms, 1)
	require.NotNil(t, got.Rooms[0].Room)
	assert.Equal(t, "101", got.Rooms[0].Room.RoomNumber)

	_, err = svc.Get(context.Background(), domain.Principal{UserID: 99, Role: domain.RoleStaff}, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_CustomersSeeOwnBookings(t *testing.T) {
	svc, db := newTestService(t)
	alice := testutil.CreateUser(t, db, domain.RoleUser)
	bob := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomBooked)
	testutil.CreateBooking(t, db, alice.ID, "2025-12-01", "2025-12-02", domain.BookingPending, "500000", room)
	testutil.CreateBooking(t, db, alice.ID, "2025-12-03", "2025-12-04", domain.BookingCancelled, "500000", room)
	testutil.CreateBooking(t, db, bob.ID, "2025-12-05", "2025-12-06", domain.BookingPending, "500000", room)
	ctx := context.Background()

	items, total, _, err := svc.List(ctx, domain.Principal{UserID: alice.ID, Role: domain.RoleUser}, ListBookingsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, b := range items {
		assert.Equal(t, alice.ID, b.UserID)
	}

	items, total, page, err := svc.List(ctx, domain.Principal{UserID: 99, Role: domain.RoleStaff}, ListBookingsQuery{Status: domain.BookingPending, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.Size())

	_, _, _, err = svc.List(ctx, domain.Principal{UserID: 99, Role: domain.RoleStaff}, ListBookingsQuery{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddService(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomBooked)
	b := testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-02", domain.BookingCheckedIn, "500000", room)
	laundry := testutil.CreateService(t, db, "Laundry", "50000.25")
	ctx := context.Background()

	usage, err := svc.AddService(ctx, b.ID, AddServiceRequest{ServiceID: laundry.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, usage.Quantity)
	assert.True(t, testutil.Money("150000.75").Equal(usage.TotalPrice), usage.TotalPrice.String())

	usage, err = svc.AddService(ctx, b.ID, AddServiceRequest{ServiceID: laundry.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, usage.Quantity)

	_, err = svc.AddService(ctx, b.ID, AddServiceRequest{ServiceID: 777})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddService(ctx, b.ID, AddServiceRequest{ServiceID: laundry.ID, Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrValidation)

	usages, err := svc.ListServices(ctx, domain.Principal{UserID: guest.ID, Role: domain.RoleUser}, b.ID)
	require.NoError(t, err)
	assert.Len(t, usages, 2)
}

func TestAddService_ClosedBooking(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomAvailable)
	laundry := testutil.CreateService(t, db, "Laundry", "50000")

	for _, st := range []domain.BookingStatus{domain.BookingCheckedOut, domain.BookingCancelled} {
		b := testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-02", st, "500000", room)
		_, err := svc.AddService(context.Background(), b.ID, AddServiceRequest{ServiceID: laundry.ID, Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrBookingClosed)
	}
}

func TestDelete_RemovesDependentsWithoutReleasingRooms(t *testing.T) {
	svc, db := newTestService(t)
	guest := testutil.CreateUser(t, db, domain.RoleUser)
	room := testutil.CreateRoom(t, db, "101", "500000", domain.RoomBooked)
	b := testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-02", domain.BookingConfirmed, "500000", room)
	testutil.AddUsage(t, db, b.ID, testutil.CreateService(t, db, "Breakfast", "100000"), 2)
	testutil.CreatePayment(t, db, b.ID, "700000", domain.PaymentCash, domain.PaymentCompleted)

	require.NoError(t, svc.Delete(context.Background(), b.ID))

	for _, m := range []interface{}{&domain.Booking{}, &domain.BookingRoom{}, &domain.ServiceUsage{}, &domain.Payment{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	assert.Equal(t, domain.RoomBooked, testutil.ReloadRoom(t, db, room.ID).Status)

	assert.ErrorIs(t, svc.Delete(context.Background(), b.ID), domain.ErrNotFound)
}

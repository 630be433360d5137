package room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domain"
	"hotel/internal/repository"
	"hotel/internal/testutil"
)

func TestAvailable(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(repository.NewRoomRepository(db))
	guest := testutil.CreateUser(t, db, domain.RoleUser)

	held := testutil.CreateRoom(t, db, "101", "500000", domain.RoomBooked)
	released := testutil.CreateRoom(t, db, "102", "500000", domain.RoomAvailable)
	testutil.CreateRoom(t, db, "103", "500000", domain.RoomMaintenance)
	free := testutil.CreateRoom(t, db, "104", "500000", domain.RoomAvailable)

	testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-04", domain.BookingConfirmed, "500000", held)
	testutil.CreateBooking(t, db, guest.ID, "2025-12-01", "2025-12-04", domain.BookingCancelled, "500000", released)

	rooms, err := svc.Available(context.Background(), AvailabilityQuery{CheckinDate: "2025-12-02", CheckoutDate: "2025-12-03"})
	require.NoError(t, err)

	var numbers []string
	for _, r := range rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	assert.Equal(t, []string{released.RoomNumber, free.RoomNumber}, numbers)

	rooms, err = svc.Available(context.Background(), AvailabilityQuery{CheckinDate: "2025-12-04", CheckoutDate: "2025-12-05"})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
}

func TestAvailable_RejectsInvertedRange(t *testing.T) {
	svc := NewService(repository.NewRoomRepository(testutil.NewDB(t)))
	_, err := svc.Available(context.Background(), AvailabilityQuery{CheckinDate: "2025-12-04", CheckoutDate: "2025-12-04"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(repository.NewRoomRepository(db))
	r := testutil.CreateRoom(t, db, "301", "900000", domain.RoomCleaning)
	testutil.CreateRoom(t, db, "302", "900000", domain.RoomAvailable)
	ctx := context.Background()

	all, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cleaning, err := svc.List(ctx, ListQuery{Status: domain.RoomCleaning})
	require.NoError(t, err)
	require.Len(t, cleaning, 1)
	assert.Equal(t, r.ID, cleaning[0].ID)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RoomType)
	assert.True(t, testutil.Money("900000").Equal(got.RoomType.BasePrice))

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

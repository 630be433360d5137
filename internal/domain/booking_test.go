package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled}
	allowed := map[BookingStatus][]BookingStatus{
		BookingPending:   {BookingConfirmed, BookingCancelled},
		BookingConfirmed: {BookingCheckedIn, BookingCancelled},
		BookingCheckedIn: {BookingCheckedOut},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_Classification(t *testing.T) {
	cases := []struct {
		status   BookingStatus
		valid    bool
		active   bool
		terminal bool
		releases bool
	}{
		{BookingPending, true, true, false, false},
		{BookingConfirmed, true, true, false, false},
		{BookingCheckedIn, true, true, false, false},
		{BookingCheckedOut, true, false, true, true},
		{BookingCancelled, true, false, true, true},
		{"archived", false, false, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.status.IsValid())
			assert.Equal(t, tc.active, tc.status.IsActive())
			assert.Equal(t, tc.terminal, tc.status.IsTerminal())
			assert.Equal(t, tc.releases, tc.status.ReleasesRooms())
		})
	}
}

func TestUnknownStatusCannotTransition(t *testing.T) {
	assert.False(t, BookingStatus("archived").CanTransitionTo(BookingConfirmed))
	assert.False(t, BookingPending.CanTransitionTo("archived"))
}

func TestRoomStatus_Releasable(t *testing.T) {
	assert.True(t, RoomBooked.Releasable())
	assert.True(t, RoomOccupied.Releasable())
	assert.False(t, RoomAvailable.Releasable())
	assert.False(t, RoomCleaning.Releasable())
	assert.False(t, RoomMaintenance.Releasable())
}

func TestPrincipal_CanAccess(t *testing.T) {
	assert.True(t, Principal{UserID: 1, Role: RoleUser}.CanAccess(1))
	assert.False(t, Principal{UserID: 1, Role: RoleUser}.CanAccess(2))
	assert.True(t, Principal{UserID: 9, Role: RoleStaff}.CanAccess(2))
	assert.True(t, Principal{UserID: 9, Role: RoleAdmin}.CanAccess(2))
}

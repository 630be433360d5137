package booking

import "hotel/internal/domain"

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	UserID       int64                `json:"user_id"`
	CheckinDate  string               `json:"checkin_date" binding:"required,datetime=2006-01-02"`
	CheckoutDate string               `json:"checkout_date" binding:"required,datetime=2006-01-02"`
	RoomIDs      []int64              `json:"room_ids" binding:"required,min=1,dive,gt=0"`
	Source       domain.BookingSource `json:"source" binding:"omitempty,oneof=website phone walk_in"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type ListBookingsQuery struct {
	Page   int                  `form:"page"`
	Limit  int                  `form:"limit"`
	Status domain.BookingStatus `form:"status"`
}

type AddServiceRequest struct {
	ServiceID int64 `json:"service_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"omitempty,min=1"`
}

// TransitionResult reports a committed status change.
type TransitionResult struct {
	Booking       *domain.Booking      `json:"booking"`
	From          domain.BookingStatus `json:"from"`
	ReleasedRooms []int64              `json:"released_rooms"`
}

package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDuplicateInvoice   = errors.New("invoice already exists for booking")
	ErrMissingCredentials = errors.New("payment gateway credentials are not configured")
	ErrSignatureInvalid   = errors.New("invalid signature")
	ErrAmountMismatch     = errors.New("amount mismatch")
	ErrBookingClosed      = errors.New("booking is closed")
	ErrRoomUnavailable    = errors.New("room not available")
	ErrPaymentRequired    = errors.New("booking has no payment")
)

package payment

import (
	"github.com/shopspring/decimal"

	"hotel/internal/domain"
	"hotel/internal/modules/charge"
)

type ManualSettlementRequest struct {
	BookingID int64 `json:"booking_id" binding:"required,gt=0" example:"12"`
}

type GatewaySettlementRequest struct {
	BookingID int64 `json:"booking_id" binding:"required,gt=0" example:"12"`
}

type ManualSettlementResult struct {
	Payment   *domain.Payment   `json:"payment"`
	Booking   *domain.Booking   `json:"booking"`
	Breakdown *charge.Breakdown `json:"breakdown"`
}

type GatewaySettlementResult struct {
	PaymentID  int64  `json:"payment_id"`
	PaymentURL string `json:"payment_url"`
	Amount     int64  `json:"amount"`
}

// Ack is the machine-readable reply to a gateway server notification.
type Ack struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

const (
	CodeSuccess          = "00"
	CodeOrderNotFound    = "01"
	CodeAlreadyConfirmed = "02"
	CodeInvalidAmount    = "04"
	CodeInvalidSignature = "97"
	CodeUnknownError     = "99"
)

var (
	ackSuccess          = Ack{RspCode: CodeSuccess, Message: "Confirm Success"}
	ackOrderNotFound    = Ack{RspCode: CodeOrderNotFound, Message: "Order not found"}
	ackAlreadyConfirmed = Ack{RspCode: CodeAlreadyConfirmed, Message: "Order already confirmed"}
	ackInvalidAmount    = Ack{RspCode: CodeInvalidAmount, Message: "Invalid amount"}
	ackInvalidSignature = Ack{RspCode: CodeInvalidSignature, Message: "Invalid signature"}
	ackUnknownError     = Ack{RspCode: CodeUnknownError, Message: "Unknown error"}
)

// SettlementState is what a customer-facing status read reports.
type SettlementState string

const (
	StatePending   SettlementState = "pending"
	StateCompleted SettlementState = "completed"
	StateFailed    SettlementState = "failed"
)

func stateOf(s domain.PaymentStatus) SettlementState {
	switch s {
	case domain.PaymentPending:
		return StatePending
	case domain.PaymentCompleted:
		return StateCompleted
	default:
		return StateFailed
	}
}

type StatusResult struct {
	PaymentID int64           `json:"payment_id"`
	BookingID int64           `json:"booking_id"`
	Status    SettlementState `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
}

// RedirectResult is the outcome of a browser return. Code echoes the
// gateway response code, or 97/01 when the request could not be matched.
type RedirectResult struct {
	Code      string          `json:"code"`
	Status    SettlementState `json:"status"`
	PaymentID int64           `json:"payment_id"`
}

type ListQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type StatsQuery struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=9999"`
}

type MonthTotal struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type QuarterTotal struct {
	Quarter string          `json:"quarter"`
	Total   decimal.Decimal `json:"total"`
}

type Stats struct {
	Year     int            `json:"year"`
	Months   []MonthTotal   `json:"months"`
	Quarters []QuarterTotal `json:"quarters"`
}

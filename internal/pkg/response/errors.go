package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
)

var domainErrors = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_STATUS_TRANSITION"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrDuplicateInvoice, http.StatusConflict, "INVOICE_EXISTS"},
	{domain.ErrMissingCredentials, http.StatusServiceUnavailable, "GATEWAY_NOT_CONFIGURED"},
	{domain.ErrBookingClosed, http.StatusConflict, "BOOKING_CLOSED"},
	{domain.ErrRoomUnavailable, http.StatusConflict, "BOOKING_CONFLICT"},
	{domain.ErrPaymentRequired, http.StatusConflict, "PAYMENT_REQUIRED"},
}

// DomainError maps a service error onto the error envelope. Unknown errors
// become a 500 with a generic message; the cause is attached to the gin
// context for the request logger.
func DomainError(c *gin.Context, err error) {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			Error(c, m.status, m.code, err.Error())
			return
		}
	}
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// BindError reports a request that failed binding or validation.
func BindError(c *gin.Context, err error) {
	if details := validator.FormatErrors(err); details != nil {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}

// ParamID parses a positive int64 path parameter, writing a 400 on failure.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

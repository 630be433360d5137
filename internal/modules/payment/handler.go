package payment

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel/internal/middleware"
	"hotel/internal/pkg/gateway"
	"hotel/internal/pkg/response"
)

type Handler struct {
	service           *Service
	frontendResultURL string
	log               *logrus.Logger
}

func NewHandler(service *Service, frontendResultURL string, log *logrus.Logger) *Handler {
	return &Handler{service: service, frontendResultURL: frontendResultURL, log: log}
}

// RegisterProtectedRoutes mounts payment routes that require a bearer token.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/vnpay/create", h.CreateGatewayPayment)
		payments.GET("/:id/status", h.GetStatus)

		payments.POST("/manual", middleware.StaffOnly(), h.ManualSettlement)
		payments.GET("", middleware.StaffOnly(), h.ListPayments)
		payments.GET("/stats", middleware.StaffOnly(), h.Stats)
		payments.GET("/booking/:booking_id", middleware.StaffOnly(), h.ListByBooking)
		payments.GET("/:id", middleware.StaffOnly(), h.GetPayment)
		payments.DELETE("/:id", middleware.AdminOnly(), h.DeletePayment)
	}
}

// RegisterPublicRoutes mounts the gateway callbacks. They authenticate by
// signature, not by token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/vnpay/ipn", h.ServerNotification)
	rg.GET("/payments/vnpay/return", h.BrowserReturn)
}

// ManualSettlement godoc
// @Summary      Settle a booking in cash and check it out
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body ManualSettlementRequest true "Booking to settle"
// @Success      201 {object} ManualSettlementResult
// @Failure      409 {object} map[string]interface{} "INVALID_STATUS_TRANSITION"
// @Router       /payments/manual [post]
func (h *Handler) ManualSettlement(c *gin.Context) {
	var req ManualSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.InitiateManualSettlement(c.Request.Context(), req.BookingID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// CreateGatewayPayment godoc
// @Summary      Create a VNPay payment URL for a booking
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body GatewaySettlementRequest true "Booking to pay"
// @Success      201 {object} GatewaySettlementResult
// @Failure      503 {object} map[string]interface{} "GATEWAY_NOT_CONFIGURED"
// @Router       /payments/vnpay/create [post]
func (h *Handler) CreateGatewayPayment(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req GatewaySettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.InitiateGatewaySettlement(c.Request.Context(), p, req.BookingID, c.ClientIP())
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// ServerNotification godoc
// @Summary      VNPay IPN callback
// @Description  Verifies the signature and settles the payment. Always answers 200 with an RspCode.
// @Tags         Payments
// @Produce      json
// @Success      200 {object} Ack
// @Router       /payments/vnpay/ipn [get]
func (h *Handler) ServerNotification(c *gin.Context) {
	ack := h.service.ReconcileServerNotification(c.Request.Context(), gateway.FromValues(c.Request.URL.Query()))
	c.JSON(http.StatusOK, ack)
}

// BrowserReturn godoc
// @Summary      VNPay customer return
// @Description  Reports the stored payment state and redirects to the frontend result page.
// @Tags         Payments
// @Success      302
// @Router       /payments/vnpay/return [get]
func (h *Handler) BrowserReturn(c *gin.Context) {
	res, err := h.service.ReconcileBrowserRedirect(c.Request.Context(), gateway.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"payment_id": res.PaymentID,
		"code":       res.Code,
		"status":     res.Status,
	}).Info("gateway browser return")

	if h.frontendResultURL == "" {
		response.Success(c, http.StatusOK, res)
		return
	}
	c.Redirect(http.StatusFound, resultURL(h.frontendResultURL, res))
}

func resultURL(base string, res *RedirectResult) string {
	q := url.Values{}
	q.Set("code", res.Code)
	q.Set("status", string(res.Status))
	q.Set("payment_id", strconv.FormatInt(res.PaymentID, 10))

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

func (h *Handler) GetStatus(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetStatus(c.Request.Context(), p, id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ListPayments(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, items, response.NewMeta(page.Number(), page.Size(), total))
}

func (h *Handler) Stats(c *gin.Context) {
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), q.Year)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) ListByBooking(c *gin.Context) {
	bookingID, ok := response.ParamID(c, "booking_id")
	if !ok {
		return
	}

	items, err := h.service.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

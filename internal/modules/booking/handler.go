package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel/internal/middleware"
	"hotel/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts booking routes on a group that already runs JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/services", h.ListServices)
		bookings.POST("/:id/services", middleware.StaffOnly(), h.AddService)
		bookings.PATCH("/:id/status", middleware.StaffOnly(), h.UpdateStatus)
		bookings.DELETE("/:id", middleware.AdminOnly(), h.DeleteBooking)
	}
}

// CreateBooking godoc
// @Summary  Create booking
// @Tags     Bookings
// @Security BearerAuth
// @Param    body body CreateBookingRequest true "Booking payload"
// @Router   /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	items, total, page, err := h.service.List(c.Request.Context(), p, q)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, items, response.NewMeta(page.Number(), page.Size(), total))
}

func (h *Handler) GetBooking(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), p, id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// UpdateStatus godoc
// @Summary  Move a booking along its lifecycle
// @Tags     Bookings
// @Security BearerAuth
// @Param    body body UpdateStatusRequest true "Target status"
// @Failure  409 {object} map[string]interface{} "INVALID_STATUS_TRANSITION"
// @Router   /bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
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

func (h *Handler) AddService(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var req AddServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	usage, err := h.service.AddService(c.Request.Context(), id, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, usage)
}

func (h *Handler) ListServices(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	usages, err := h.service.ListServices(c.Request.Context(), p, id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, usages)
}

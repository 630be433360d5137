package invoice

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel/internal/middleware"
	"hotel/internal/pkg/response"
)

type ListQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.Use(middleware.StaffOnly())
	{
		invoices.POST("/generate/:booking_id", h.Generate)
		invoices.GET("", h.List)
		invoices.GET("/booking/:booking_id", h.GetByBooking)
		invoices.DELETE("/:id", middleware.AdminOnly(), h.Delete)
	}
}

// Generate godoc
// @Summary  Generate the invoice of a booking
// @Tags     Invoices
// @Security BearerAuth
// @Success  201 {object} View
// @Failure  409 {object} map[string]interface{} "INVOICE_EXISTS"
// @Router   /invoices/generate/{booking_id} [post]
func (h *Handler) Generate(c *gin.Context) {
	bookingID, ok := response.ParamID(c, "booking_id")
	if !ok {
		return
	}

	v, err := h.service.Generate(c.Request.Context(), bookingID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

func (h *Handler) List(c *gin.Context) {
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

func (h *Handler) GetByBooking(c *gin.Context) {
	bookingID, ok := response.ParamID(c, "booking_id")
	if !ok {
		return
	}

	v, err := h.service.GetByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

func (h *Handler) Delete(c *gin.Context) {
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

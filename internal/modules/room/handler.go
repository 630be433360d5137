package room

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rooms := rg.Group("/rooms")
	{
		rooms.GET("/available", h.Available)
		rooms.GET("", middleware.StaffOnly(), h.List)
		rooms.GET("/:id", middleware.StaffOnly(), h.Get)
	}
}

// Available godoc
// @Summary  Rooms free for a date range
// @Tags     Rooms
// @Security BearerAuth
// @Param    checkin  query string true "YYYY-MM-DD"
// @Param    checkout query string true "YYYY-MM-DD"
// @Router   /rooms/available [get]
func (h *Handler) Available(c *gin.Context) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	rooms, err := h.service.Available(c.Request.Context(), q)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	rooms, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rooms)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

package handler

import (
	"net/http"

	"dev-event-hub/internal/model"
	"dev-event-hub/internal/service"
	"dev-event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api")
	{
		router.POST("bookings", h.Create)
		router.GET("events/:slug/bookings", h.CountByEvent)
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.BookingResponse{Success: false, Error: "Invalid request format"})
		return
	}

	booking, err := h.service.Create(c, req)
	if err != nil {
		status, detail := statusOf(err)
		h.log(err, "Create", status)
		c.JSON(status, model.BookingResponse{Success: false, Error: detail})
		return
	}

	c.JSON(http.StatusCreated, model.BookingResponse{Success: true, BookingID: booking.ID.String()})
}

func (h *BookingHandler) CountByEvent(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	count, err := h.service.CountByEventSlug(c, slug)
	if err != nil {
		status, detail := statusOf(err)
		h.log(err, "CountByEvent", status)
		c.JSON(status, gin.H{"message": "Failed to count bookings", "error": detail})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bookings counted successfully", "count": count})
}

func (h *BookingHandler) log(err error, operation string, status int) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Int("status", status), zap.Error(err))
	if status >= http.StatusInternalServerError {
		log.Error("Booking request failed")
		return
	}
	log.Warn("Booking request rejected")
}

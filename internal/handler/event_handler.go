package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dev-event-hub/internal/model"
	"dev-event-hub/internal/normalize"
	"dev-event-hub/internal/service"
	apperrors "dev-event-hub/pkg/app_errors"
	"dev-event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api")
	{
		router.GET("events", h.List)
		router.GET("events/:slug", h.GetBySlug)
		router.POST("events", h.Create)
		router.PUT("events/:slug", h.UpdateBySlug)
		router.GET("events/:slug/similar", h.ListSimilar)
	}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List", "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Events fetched successfully", "events": events})
}

func (h *EventHandler) GetBySlug(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	event, err := h.service.GetBySlug(c, slug)
	if err != nil {
		h.handleError(c, err, "GetBySlug", "Failed to fetch event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event fetched successfully", "event": event})
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindForm(c, &req); err != nil {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}

	tags, tagsOK := c.GetPostForm("tags")
	agenda, agendaOK := c.GetPostForm("agenda")
	if !tagsOK || !agendaOK || tags == "" || agenda == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tags and agenda are required"})
		return
	}
	if err := json.Unmarshal([]byte(tags), &req.Tags); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tags must be a JSON array of strings", "error": err.Error()})
		return
	}
	if err := json.Unmarshal([]byte(agenda), &req.Agenda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Agenda must be a JSON array of strings", "error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.handleError(c, fmt.Errorf("open uploaded image: %w", err), "Create", "Failed to create event")
		return
	}
	defer file.Close()

	created, err := h.service.Create(c, req, &service.ImageFile{Filename: fileHeader.Filename, Content: file})
	if err != nil {
		h.handleError(c, err, "Create", "Event creation failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully", "event": created})
}

func (h *EventHandler) UpdateBySlug(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	var params model.UpdateEventParams
	if err := BindJson(c, &params); err != nil {
		return
	}
	if params.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "At least one field is required"})
		return
	}

	updated, err := h.service.UpdateBySlug(c, slug, params)
	if err != nil {
		h.handleError(c, err, "UpdateBySlug", "Event update failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully", "event": updated})
}

func (h *EventHandler) ListSimilar(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	events, err := h.service.ListSimilar(c, slug)
	if err != nil {
		h.handleError(c, err, "ListSimilar", "Failed to fetch similar events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Similar events fetched successfully", "events": events})
}

// slugParam 取出並檢查 :slug，格式錯誤時直接回 400
func slugParam(c *gin.Context) (string, bool) {
	slug := c.Param("slug")
	if !normalize.IsSlug(slug) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid slug parameter",
			"error":   "Slug must be a non-empty string containing only lowercase letters, numbers, and hyphens",
		})
		return "", false
	}
	return slug, true
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string, message string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	status, detail := statusOf(err)
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(status, gin.H{"message": "Event not found", "error": detail})
	case status < http.StatusInternalServerError:
		log.Warn("Request rejected", zap.Int("status", status))
		c.JSON(status, gin.H{"message": message, "error": detail})
	default:
		log.Error("Unexpected error", zap.Int("status", status))
		c.JSON(status, gin.H{"message": message, "error": detail})
	}
}

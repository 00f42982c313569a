package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
	"github.com/noah-isme/event-info-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, req models.EventRequest) error
	Update(ctx context.Context, id string, req models.EventRequest) error
	Delete(ctx context.Context, id string) error
}

// EventHandler serves event metadata.
type EventHandler struct {
	service eventService
}

// NewEventHandler constructs handler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Success 200 {object} map[string][]models.Event
// @Router /api/events [get]
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"events": events})
}

// Get godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]models.Event
// @Failure 404 {object} response.ErrorBody
// @Router /api/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"event": event})
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body models.EventRequest true "Event payload"
// @Success 200 {object} response.OKBody
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	if err := h.service.Create(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Update godoc
// @Summary Replace event fields
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body models.EventRequest true "Event payload"
// @Success 200 {object} response.OKBody
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Delete godoc
// @Summary Delete event
// @Description Schedule entries and posts of the event are kept.
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.OKBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

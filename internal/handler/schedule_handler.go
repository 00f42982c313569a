package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, eventID string) ([]models.ScheduleEntry, error)
	Get(ctx context.Context, id int64) (*models.ScheduleEntry, error)
	Export(ctx context.Context, eventID, format string) (*models.ExportFile, error)
}

// ScheduleHandler manages schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List an event's schedule
// @Tags Schedule
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} map[string][]models.ScheduleEntry
// @Failure 400 {object} response.ErrorBody
// @Router /api/schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Query("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"items": entries})
}

// Get godoc
// @Summary Get schedule entry
// @Tags Schedule
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} map[string]models.ScheduleEntry
// @Failure 404 {object} response.ErrorBody
// @Router /api/schedule/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"item": entry})
}

// Export godoc
// @Summary Download an event's schedule
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param eventId query string true "Event ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /api/schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Query("eventId"), c.DefaultQuery("format", models.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
	"github.com/noah-isme/event-info-api/pkg/response"
)

type postService interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.BoothPost, error)
	Timeline(ctx context.Context) ([]models.BoothPost, error)
	Get(ctx context.Context, id int64) (*models.BoothPost, error)
	Create(ctx context.Context, principal *models.Principal, req models.CreatePostRequest) (int64, error)
}

// PostHandler serves the booth feed.
type PostHandler struct {
	service postService
}

// NewPostHandler constructs handler.
func NewPostHandler(svc postService) *PostHandler {
	return &PostHandler{service: svc}
}

// List godoc
// @Summary List an event's posts, newest first
// @Tags Posts
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} map[string][]models.BoothPost
// @Failure 400 {object} response.ErrorBody
// @Router /api/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.service.ListByEvent(c.Request.Context(), c.Query("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"items": posts})
}

// Timeline godoc
// @Summary Latest posts across all events
// @Tags Posts
// @Produce json
// @Success 200 {object} map[string][]models.BoothPost
// @Router /api/timeline [get]
func (h *PostHandler) Timeline(c *gin.Context) {
	posts, err := h.service.Timeline(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"items": posts})
}

// Get godoc
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]models.BoothPost
// @Failure 404 {object} response.ErrorBody
// @Router /api/posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"item": post})
}

// Create godoc
// @Summary Submit a booth post
// @Tags Posts
// @Accept json
// @Produce json
// @Param payload body models.CreatePostRequest true "Post payload"
// @Success 200 {object} response.OKBody
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /api/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing fields"))
		return
	}
	id, err := h.service.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithID(c, id)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

type postRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.BoothPost, error)
	ListRecent(ctx context.Context, limit int) ([]models.BoothPost, error)
	FindByID(ctx context.Context, id int64) (*models.BoothPost, error)
	Create(ctx context.Context, post *models.BoothPost) (int64, error)
}

// PostConfig holds the post submission switches.
type PostConfig struct {
	AcceptClientPostedAt bool
}

// PostService reads the booth feed and accepts new posts.
type PostService struct {
	repo   postRepository
	cache  *CacheService
	config PostConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewPostService constructs the service. cache may be nil.
func NewPostService(repo postRepository, cache *CacheService, cfg PostConfig, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, cache: cache, config: cfg, logger: logger, now: time.Now}
}

// ListByEvent returns every post of eventID, newest first.
func (s *PostService) ListByEvent(ctx context.Context, eventID string) ([]models.BoothPost, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "eventId required")
	}
	posts, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("failed to list posts", zap.String("event_id", eventID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	return posts, nil
}

// Timeline returns the newest posts across all events.
func (s *PostService) Timeline(ctx context.Context) ([]models.BoothPost, error) {
	var cached []models.BoothPost
	if hit, _ := s.cache.Get(ctx, CacheKeyTimeline, &cached); hit {
		return cached, nil
	}

	posts, err := s.repo.ListRecent(ctx, models.TimelineLimit)
	if err != nil {
		s.logger.Error("failed to load timeline", zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	_ = s.cache.Set(ctx, CacheKeyTimeline, posts, 0)
	return posts, nil
}

// Get returns one post, including posts whose event was deleted.
func (s *PostService) Get(ctx context.Context, id int64) (*models.BoothPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		s.logger.Error("failed to get post", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	return post, nil
}

// Create stores a post attributed to the caller's booth. Only staff and admins may pick the
// target event; everyone else posts to the event bound to their identity.
func (s *PostService) Create(ctx context.Context, principal *models.Principal, req models.CreatePostRequest) (int64, error) {
	if principal.Anonymous() {
		return 0, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized. Please login.")
	}
	identity := principal.Identity

	eventID := ""
	if principal.Role.AtLeast(models.RoleStaff) {
		eventID = strings.TrimSpace(req.EventID)
	}
	if eventID == "" && identity.EventID != nil {
		eventID = *identity.EventID
	}

	postedAt := s.now().UTC().Format(models.PostedAtLayout)
	if s.config.AcceptClientPostedAt {
		postedAt = strings.TrimSpace(req.PostedAt)
	}

	if eventID == "" || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" || postedAt == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "missing fields")
	}

	post := &models.BoothPost{
		EventID:  eventID,
		BoothID:  identity.BoothID,
		Title:    req.Title,
		Body:     req.Body,
		PostedAt: postedAt,
	}
	id, err := s.repo.Create(ctx, post)
	if err != nil {
		s.logger.Error("failed to create post", zap.String("event_id", eventID), zap.Error(err))
		return 0, appErrors.Internal(err, "failed to create post")
	}
	_ = s.cache.Invalidate(ctx, CacheKeyTimeline)
	return id, nil
}

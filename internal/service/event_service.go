package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// EventService manages event metadata.
type EventService struct {
	repo      eventRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the service. cache may be nil.
func NewEventService(repo eventRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every event.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	var cached []models.Event
	if hit, _ := s.cache.Get(ctx, CacheKeyEvents, &cached); hit {
		return cached, nil
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list events", zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	_ = s.cache.Set(ctx, CacheKeyEvents, events, 0)
	return events, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		s.logger.Error("failed to get event", zap.String("event_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	return event, nil
}

// Create inserts a new event. Ids are unique; a clash fails the insert.
func (s *EventService) Create(ctx context.Context, req models.EventRequest) error {
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || strings.TrimSpace(req.Name) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "Id and name are required")
	}

	event := toEvent(req.ID, req)
	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error("failed to create event", zap.String("event_id", req.ID), zap.Error(err))
		return appErrors.Internal(err, "failed to create event")
	}
	s.invalidate(ctx)
	return nil
}

// Update replaces name, subtitle, date and location. Fields left out of the request become null.
// Updating an unknown id is not an error.
func (s *EventService) Update(ctx context.Context, id string, req models.EventRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}

	matched, err := s.repo.Update(ctx, toEvent(id, req))
	if err != nil {
		s.logger.Error("failed to update event", zap.String("event_id", id), zap.Error(err))
		return appErrors.Internal(err, "update failed")
	}
	if !matched {
		s.logger.Debug("update matched no event", zap.String("event_id", id))
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the event only; its schedule entries and posts remain.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete event", zap.String("event_id", id), zap.Error(err))
		return appErrors.Internal(err, "delete failed")
	}
	s.invalidate(ctx)
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, CacheKeyEvents)
}

func toEvent(id string, req models.EventRequest) *models.Event {
	return &models.Event{
		ID:       id,
		Name:     req.Name,
		Subtitle: req.Subtitle,
		Date:     req.Date,
		Location: req.Location,
	}
}

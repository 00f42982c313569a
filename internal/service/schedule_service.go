package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/pkg/export"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

type scheduleRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error)
}

type eventFinder interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

var scheduleHeaders = []string{"Start", "End", "Title"}

// ScheduleService reads an event's programme and renders it for download.
type ScheduleService struct {
	repo   scheduleRepository
	events eventFinder
	csv    datasetRenderer
	pdf    datasetRenderer
	logger *zap.Logger
}

// NewScheduleService constructs the service. events is used only for export titles and may be nil.
func NewScheduleService(repo scheduleRepository, events eventFinder, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:   repo,
		events: events,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(35, 35, 120),
		logger: logger,
	}
}

// List returns the entries of eventID by start time.
func (s *ScheduleService) List(ctx context.Context, eventID string) ([]models.ScheduleEntry, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "eventId is required")
	}
	entries, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("failed to list schedule", zap.String("event_id", eventID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	return entries, nil
}

// Get returns one entry, including entries whose event was deleted.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		s.logger.Error("failed to get schedule entry", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed")
	}
	return entry, nil
}

// Export renders the schedule of eventID as CSV or PDF.
func (s *ScheduleService) Export(ctx context.Context, eventID, format string) (*models.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = models.ExportFormatCSV
	}
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	entries, err := s.List(ctx, eventID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   s.exportTitle(ctx, eventID),
		Headers: scheduleHeaders,
		Rows:    make([]map[string]string, 0, len(entries)),
	}
	for _, entry := range entries {
		end := ""
		if entry.EndTime != nil {
			end = *entry.EndTime
		}
		data.Rows = append(data.Rows, map[string]string{
			"Start": entry.StartTime,
			"End":   end,
			"Title": entry.Title,
		})
	}

	renderer, contentType := s.csv, "text/csv; charset=utf-8"
	if format == models.ExportFormatPDF {
		renderer, contentType = s.pdf, "application/pdf"
	}
	payload, err := renderer.Render(data)
	if err != nil {
		s.logger.Error("failed to render schedule", zap.String("event_id", eventID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to export schedule")
	}

	return &models.ExportFile{
		Filename:    fmt.Sprintf("schedule-%s.%s", sanitizeFilename(eventID), format),
		ContentType: contentType,
		Data:        payload,
	}, nil
}

func (s *ScheduleService) exportTitle(ctx context.Context, eventID string) string {
	if s.events == nil {
		return eventID
	}
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return eventID
	}
	return event.Name
}

func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

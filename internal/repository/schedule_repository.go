package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-info-api/internal/models"
)

const scheduleColumns = `id, event_id, title, start_time, end_time`

// ScheduleRepository reads schedule entries. Entries are provisioned out of band.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByEvent returns an event's entries by start time, ties broken by id.
func (r *ScheduleRepository) ListByEvent(ctx context.Context, eventID string) ([]models.ScheduleEntry, error) {
	query := r.db.Rebind(`SELECT ` + scheduleColumns + ` FROM schedule WHERE event_id = ? ORDER BY start_time ASC, id ASC`)
	entries := []models.ScheduleEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, eventID); err != nil {
		return nil, fmt.Errorf("list schedule by event: %w", err)
	}
	return entries, nil
}

// FindByID loads one entry regardless of whether its event still exists.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	query := r.db.Rebind(`SELECT ` + scheduleColumns + ` FROM schedule WHERE id = ?`)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-info-api/internal/models"
)

const eventColumns = `id, name, subtitle, date, location`

// EventRepository provides persistence for events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns every event ordered by id.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY id ASC`
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID loads an event. sql.ErrNoRows is returned unwrapped when it does not exist.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := r.db.Rebind(`SELECT ` + eventColumns + ` FROM events WHERE id = ?`)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts an event. A duplicate id surfaces as the driver's constraint error.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	const query = `INSERT INTO events (id, name, subtitle, date, location) VALUES (:id, :name, :subtitle, :date, :location)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update overwrites every mutable column and reports whether a row matched.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) (bool, error) {
	const query = `UPDATE events SET name = :name, subtitle = :subtitle, date = :date, location = :location WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return false, fmt.Errorf("update event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update event rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes the event row only. Schedule entries and posts that reference it stay.
func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM events WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete event rows affected: %w", err)
	}
	return n > 0, nil
}

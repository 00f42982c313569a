package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-info-api/internal/models"
)

// ProfileRepository reads role profiles for identity-provider users.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID returns the profile keyed by the provider subject, joined to its booth.
func (r *ProfileRepository) FindByID(ctx context.Context, subjectID string) (*models.Profile, error) {
	query := r.db.Rebind(`SELECT p.id, p.username, p.role, p.booth_id, b.name AS booth_name, b.event_id
FROM profiles AS p
LEFT JOIN booths AS b ON p.booth_id = b.id
WHERE p.id = ? LIMIT 1`)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &profile, nil
}

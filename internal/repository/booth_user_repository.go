package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-info-api/internal/models"
)

// BoothUserRepository reads self-hosted booth credentials.
type BoothUserRepository struct {
	db *sqlx.DB
}

// NewBoothUserRepository creates the repository.
func NewBoothUserRepository(db *sqlx.DB) *BoothUserRepository {
	return &BoothUserRepository{db: db}
}

// FindByUsername returns the credential with its booth name and event id.
func (r *BoothUserRepository) FindByUsername(ctx context.Context, username string) (*models.BoothUser, error) {
	query := r.db.Rebind(`SELECT u.id, u.username, u.password_hash, u.booth_id, u.is_admin, b.name AS booth_name, b.event_id
FROM booth_users AS u
LEFT JOIN booths AS b ON u.booth_id = b.id
WHERE u.username = ? LIMIT 1`)
	var user models.BoothUser
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find booth user by username: %w", err)
	}
	return &user, nil
}

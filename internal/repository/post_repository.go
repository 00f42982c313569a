package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/event-info-api/internal/models"
)

// LEFT JOIN keeps posts whose booth is null or has been removed; booth_name is then NULL.
const postSelect = `SELECT p.id, p.event_id, p.booth_id, p.title, p.body, p.posted_at, b.name AS booth_name
FROM booth_posts AS p
LEFT JOIN booths AS b ON p.booth_id = b.id`

// PostRepository provides persistence for booth posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// ListByEvent returns all posts for an event, newest first.
func (r *PostRepository) ListByEvent(ctx context.Context, eventID string) ([]models.BoothPost, error) {
	query := r.db.Rebind(postSelect + ` WHERE p.event_id = ? ORDER BY p.posted_at DESC, p.id DESC`)
	posts := []models.BoothPost{}
	if err := r.db.SelectContext(ctx, &posts, query, eventID); err != nil {
		return nil, fmt.Errorf("list posts by event: %w", err)
	}
	return posts, nil
}

// ListRecent returns the newest posts across all events.
func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]models.BoothPost, error) {
	query := r.db.Rebind(postSelect + ` ORDER BY p.posted_at DESC, p.id DESC LIMIT ?`)
	posts := []models.BoothPost{}
	if err := r.db.SelectContext(ctx, &posts, query, limit); err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}
	return posts, nil
}

// FindByID loads one post regardless of whether its event still exists.
func (r *PostRepository) FindByID(ctx context.Context, id int64) (*models.BoothPost, error) {
	query := r.db.Rebind(postSelect + ` WHERE p.id = ?`)
	var post models.BoothPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a post and returns its generated id.
func (r *PostRepository) Create(ctx context.Context, post *models.BoothPost) (int64, error) {
	query := r.db.Rebind(`INSERT INTO booth_posts (event_id, booth_id, title, body, posted_at) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, post.EventID, post.BoothID, post.Title, post.Body, post.PostedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}
	post.ID = id
	return id, nil
}

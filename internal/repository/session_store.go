package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

const (
	sessionKeyPrefix = "session:"
	revokedKeyPrefix = "revoked:"
)

type memorySession struct {
	session   models.Session
	expiresAt time.Time
}

// MemorySessionStore keeps sessions and revoked token ids in process. Entries expire on
// their own deadline and are also bounded by the LRU's capacity and maximum TTL.
type MemorySessionStore struct {
	sessions *expirable.LRU[string, memorySession]
	revoked  *expirable.LRU[string, time.Time]
	now      func() time.Time
}

// NewMemorySessionStore builds a store holding at most capacity sessions for at most maxTTL.
// Revoked token ids are not capped in number; they leave only when their TTL runs out, so a
// full store never lets a logged-out token back in.
func NewMemorySessionStore(capacity int, maxTTL time.Duration) *MemorySessionStore {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemorySessionStore{
		sessions: expirable.NewLRU[string, memorySession](capacity, nil, maxTTL),
		revoked:  expirable.NewLRU[string, time.Time](0, nil, maxTTL),
		now:      time.Now,
	}
}

// SaveSession stores the session under id until ttl elapses.
func (s *MemorySessionStore) SaveSession(_ context.Context, id string, session *models.Session, ttl time.Duration) error {
	s.sessions.Add(id, memorySession{session: *session, expiresAt: s.now().Add(ttl)})
	return nil
}

// FindSession returns a copy of the session or ErrSessionNotFound.
func (s *MemorySessionStore) FindSession(_ context.Context, id string) (*models.Session, error) {
	entry, ok := s.sessions.Get(id)
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		s.sessions.Remove(id)
		return nil, appErrors.ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

// DeleteSession destroys the session. Deleting an unknown id is not an error.
func (s *MemorySessionStore) DeleteSession(_ context.Context, id string) error {
	s.sessions.Remove(id)
	return nil
}

// RevokeToken records tokenID as revoked for ttl.
func (s *MemorySessionStore) RevokeToken(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.revoked.Add(tokenID, s.now().Add(ttl))
	return nil
}

// IsTokenRevoked reports whether tokenID was revoked and the revocation is still live.
func (s *MemorySessionStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	until, ok := s.revoked.Get(tokenID)
	if !ok {
		return false, nil
	}
	return s.now().Before(until), nil
}

// RedisSessionStore keeps sessions and revoked token ids in Redis so several API
// instances share them.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore constructs the store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// SaveSession stores the JSON-encoded session with a TTL.
func (s *RedisSessionStore) SaveSession(ctx context.Context, id string, session *models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// FindSession returns the session or ErrSessionNotFound.
func (s *RedisSessionStore) FindSession(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis find session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteSession destroys the session.
func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// RevokeToken records tokenID as revoked for ttl.
func (s *RedisSessionStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether tokenID is on the revocation list.
func (s *RedisSessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token: %w", err)
	}
	return n > 0, nil
}

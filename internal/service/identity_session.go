package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/pkg/config"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// SessionStrategy authenticates callers by an opaque session id kept in a cookie.
type SessionStrategy struct {
	store  SessionStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionStrategy constructs the cookie-session strategy.
func NewSessionStrategy(store SessionStore, ttl time.Duration, logger *zap.Logger) *SessionStrategy {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStrategy{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Mode implements IdentityStrategy.
func (s *SessionStrategy) Mode() string { return config.AuthModeSession }

// Resolve looks the session up. An unknown or expired session is Unauthorized.
func (s *SessionStrategy) Resolve(ctx context.Context, creds Credentials) (*models.Identity, error) {
	if creds.SessionID == "" {
		return nil, nil
	}
	session, err := s.store.FindSession(ctx, creds.SessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired or invalid")
		}
		s.logger.Error("failed to load session", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load session")
	}
	return session.Identity(), nil
}

// Issue creates a new session for identity.
func (s *SessionStrategy) Issue(ctx context.Context, identity *models.Identity) (*models.IssuedCredential, error) {
	now := s.now().UTC()
	session := &models.Session{
		UserID:    identity.SubjectID,
		Username:  identity.Username,
		BoothID:   identity.BoothID,
		BoothName: identity.BoothName,
		EventID:   identity.EventID,
		IsAdmin:   identity.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	id := uuid.NewString()
	if err := s.store.SaveSession(ctx, id, session, s.ttl); err != nil {
		return nil, appErrors.Internal(err, "failed to create session")
	}
	return &models.IssuedCredential{Kind: models.CredentialSession, Value: id, ExpiresAt: session.ExpiresAt}, nil
}

// Revoke destroys the session before returning.
func (s *SessionStrategy) Revoke(ctx context.Context, creds Credentials, _ *models.Identity) error {
	if creds.SessionID == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, creds.SessionID); err != nil {
		return appErrors.Internal(err, "failed to destroy session")
	}
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/noah-isme/event-info-api/internal/models"
)

// Credentials are the raw caller credentials extracted from a request.
type Credentials struct {
	SessionID   string
	BearerToken string
}

// Empty reports whether the request carried no credential at all.
func (c Credentials) Empty() bool {
	return c.SessionID == "" && c.BearerToken == ""
}

// IdentityResolver turns credentials into an identity. A nil identity with a nil error
// means the caller is anonymous.
type IdentityResolver interface {
	Resolve(ctx context.Context, creds Credentials) (*models.Identity, error)
}

// IdentityStrategy is the credential mechanism of one deployment: it resolves credentials
// and, for self-hosted modes, issues and revokes them.
type IdentityStrategy interface {
	IdentityResolver
	Mode() string
	Issue(ctx context.Context, identity *models.Identity) (*models.IssuedCredential, error)
	Revoke(ctx context.Context, creds Credentials, identity *models.Identity) error
}

// SessionStore persists server-side sessions.
type SessionStore interface {
	SaveSession(ctx context.Context, id string, session *models.Session, ttl time.Duration) error
	FindSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// TokenRevocationStore remembers logged-out token ids until they would have expired anyway.
type TokenRevocationStore interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

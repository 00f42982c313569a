package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/pkg/config"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// JWTConfig configures self-issued access tokens.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// JWTStrategy authenticates callers with HS256 bearer tokens it issued itself.
type JWTStrategy struct {
	config  JWTConfig
	revoked TokenRevocationStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewJWTStrategy constructs the self-issued token strategy.
func NewJWTStrategy(cfg JWTConfig, revoked TokenRevocationStore, logger *zap.Logger) *JWTStrategy {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTStrategy{config: cfg, revoked: revoked, logger: logger, now: time.Now}
}

// Mode implements IdentityStrategy.
func (s *JWTStrategy) Mode() string { return config.AuthModeJWT }

// Resolve verifies the bearer token. Malformed, expired, badly signed and revoked tokens are
// all Forbidden with "invalid token".
func (s *JWTStrategy) Resolve(ctx context.Context, creds Credentials) (*models.Identity, error) {
	if creds.BearerToken == "" {
		return nil, nil
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(creds.BearerToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid token")
	}

	if claims.ID != "" && s.revoked != nil {
		revoked, err := s.revoked.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("failed to check token revocation", zap.Error(err))
			return nil, appErrors.Internal(err, "failed to verify token")
		}
		if revoked {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid token")
		}
	}

	identity := &models.Identity{
		SubjectID: claims.UserID,
		Username:  claims.Username,
		BoothID:   claims.BoothID,
		BoothName: claims.BoothName,
		EventID:   claims.EventID,
		IsAdmin:   claims.IsAdmin,
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// Issue signs a token for identity.
func (s *JWTStrategy) Issue(_ context.Context, identity *models.Identity) (*models.IssuedCredential, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.JWTClaims{
		UserID:    identity.SubjectID,
		Username:  identity.Username,
		BoothID:   identity.BoothID,
		BoothName: identity.BoothName,
		EventID:   identity.EventID,
		IsAdmin:   identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   identity.SubjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.IssuedCredential{Kind: models.CredentialToken, Value: signed, ExpiresAt: expiresAt}, nil
}

// Revoke puts the token id on the revocation list until the token expires.
func (s *JWTStrategy) Revoke(ctx context.Context, _ Credentials, identity *models.Identity) error {
	if identity == nil || identity.TokenID == "" || s.revoked == nil {
		return nil
	}
	ttl := identity.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.RevokeToken(ctx, identity.TokenID, ttl); err != nil {
		return appErrors.Internal(err, "failed to revoke token")
	}
	return nil
}

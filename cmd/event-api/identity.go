package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/repository"
	"github.com/noah-isme/event-info-api/internal/service"
	"github.com/noah-isme/event-info-api/pkg/config"
)

type credentialStore interface {
	service.SessionStore
	service.TokenRevocationStore
}

func buildStore(cfg *config.Config, client *redis.Client) credentialStore {
	if cfg.Session.Store == config.StoreRedis {
		return repository.NewRedisSessionStore(client)
	}
	maxTTL := cfg.Session.TTL
	if cfg.JWT.Expiration > maxTTL {
		maxTTL = cfg.JWT.Expiration
	}
	return repository.NewMemorySessionStore(cfg.Session.MaxEntries, maxTTL)
}

// buildIdentity picks the credential strategy and matching role resolver for AUTH_MODE.
func buildIdentity(ctx context.Context, cfg *config.Config, client *redis.Client, db *sqlx.DB, logr *zap.Logger) (service.IdentityStrategy, service.RoleResolver, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		strategy := service.NewJWTStrategy(service.JWTConfig{
			Secret:     cfg.JWT.Secret,
			Expiration: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, buildStore(cfg, client), logr)
		return strategy, service.ClaimsRoleResolver{}, nil
	case config.AuthModeOIDC:
		strategy, err := service.NewOIDCStrategy(ctx, service.OIDCConfig{
			IssuerURL: cfg.OIDC.IssuerURL,
			ClientID:  cfg.OIDC.ClientID,
			UserInfo:  cfg.OIDC.UserInfo,
		}, logr)
		if err != nil {
			return nil, nil, err
		}
		return strategy, service.NewProfileRoleResolver(repository.NewProfileRepository(db), logr), nil
	default:
		return service.NewSessionStrategy(buildStore(cfg, client), cfg.Session.TTL, logr), service.ClaimsRoleResolver{}, nil
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/pkg/config"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// OIDCConfig points at the identity provider that owns sign-in.
type OIDCConfig struct {
	IssuerURL string
	ClientID  string
	UserInfo  bool
}

type tokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*oidc.IDToken, error)
}

type userInfoFetcher interface {
	UserInfo(ctx context.Context, tokenSource oauth2.TokenSource) (*oidc.UserInfo, error)
}

// OIDCStrategy delegates credential verification to an OpenID Connect provider. Login and
// logout belong to the provider.
type OIDCStrategy struct {
	verifier tokenVerifier
	userInfo userInfoFetcher
	logger   *zap.Logger
}

// NewOIDCStrategy discovers the provider and builds a verifier checking signature, expiry and
// audience.
func NewOIDCStrategy(ctx context.Context, cfg OIDCConfig, logger *zap.Logger) (*OIDCStrategy, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	var fetcher userInfoFetcher
	if cfg.UserInfo {
		fetcher = provider
	}
	return NewOIDCStrategyWithVerifier(verifier, fetcher, logger), nil
}

// NewOIDCStrategyWithVerifier builds the strategy around an existing verifier. userInfo may be nil.
func NewOIDCStrategyWithVerifier(verifier tokenVerifier, userInfo userInfoFetcher, logger *zap.Logger) *OIDCStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OIDCStrategy{verifier: verifier, userInfo: userInfo, logger: logger}
}

// Mode implements IdentityStrategy.
func (s *OIDCStrategy) Mode() string { return config.AuthModeOIDC }

// Resolve verifies the bearer token with the provider. Any failure is Unauthorized.
func (s *OIDCStrategy) Resolve(ctx context.Context, creds Credentials) (*models.Identity, error) {
	if creds.BearerToken == "" {
		return nil, nil
	}

	token, err := s.verifier.Verify(ctx, creds.BearerToken)
	if err != nil {
		s.logger.Debug("oidc token rejected", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims := map[string]interface{}{}
	if err := token.Claims(&claims); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token claims")
	}

	if s.userInfo != nil {
		info, err := s.userInfo.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.BearerToken}))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "failed to fetch user info")
		}
		extra := map[string]interface{}{}
		if err := info.Claims(&extra); err == nil {
			for k, v := range extra {
				if _, ok := claims[k]; !ok {
					claims[k] = v
				}
			}
		}
	}

	return &models.Identity{
		SubjectID: token.Subject,
		Username:  displayName(claims),
		Claims:    claims,
	}, nil
}

// Issue is never reached through the API: sign-in happens at the provider.
func (s *OIDCStrategy) Issue(context.Context, *models.Identity) (*models.IssuedCredential, error) {
	return nil, appErrors.ErrLoginDelegated
}

// Revoke acknowledges logout without doing anything.
func (s *OIDCStrategy) Revoke(context.Context, Credentials, *models.Identity) error {
	return nil
}

func displayName(claims map[string]interface{}) string {
	for _, key := range []string{"preferred_username", "email", "name"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

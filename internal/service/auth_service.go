package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/pkg/config"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// adminBoothName labels accounts without a booth.
const adminBoothName = "Admin"

type boothUserReader interface {
	FindByUsername(ctx context.Context, username string) (*models.BoothUser, error)
}

// AuthService provides login, logout and per-request authentication.
type AuthService struct {
	users     boothUserReader
	strategy  IdentityStrategy
	roles     RoleResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance. users may be nil for delegated sign-in.
func NewAuthService(users boothUserReader, strategy IdentityStrategy, roles RoleResolver, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if roles == nil {
		roles = ClaimsRoleResolver{}
	}
	return &AuthService{users: users, strategy: strategy, roles: roles, validator: validate, logger: logger}
}

// Mode reports the active identity strategy.
func (s *AuthService) Mode() string {
	return s.strategy.Mode()
}

// Login checks booth credentials and issues a session or token. A session the caller already
// holds in previous is destroyed before the new one is issued.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, previous Credentials) (*models.LoginResult, error) {
	if s.strategy.Mode() == config.AuthModeOIDC || s.users == nil {
		return nil, appErrors.ErrLoginDelegated
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		s.logger.Error("failed to load booth user", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	boothName := adminBoothName
	if user.BoothName != nil && *user.BoothName != "" {
		boothName = *user.BoothName
	}

	identity := &models.Identity{
		SubjectID: strconv.FormatInt(user.ID, 10),
		Username:  user.Username,
		BoothID:   user.BoothID,
		BoothName: boothName,
		EventID:   user.EventID,
		IsAdmin:   user.IsAdmin,
	}

	if previous.SessionID != "" {
		if err := s.strategy.Revoke(ctx, Credentials{SessionID: previous.SessionID}, nil); err != nil {
			return nil, err
		}
	}

	credential, err := s.strategy.Issue(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booth user signed in", zap.String("username", user.Username), zap.Bool("admin", user.IsAdmin))

	return &models.LoginResult{
		Credential: *credential,
		User: models.UserSummary{
			Username:  identity.Username,
			BoothName: identity.BoothName,
			IsAdmin:   identity.IsAdmin,
		},
	}, nil
}

// Logout ends the caller's session or revokes their token. Anonymous callers succeed too.
func (s *AuthService) Logout(ctx context.Context, creds Credentials, principal *models.Principal) error {
	var identity *models.Identity
	if principal != nil {
		identity = principal.Identity
	}
	return s.strategy.Revoke(ctx, creds, identity)
}

// Me summarises the caller, or returns nil when anonymous.
func (s *AuthService) Me(principal *models.Principal) *models.MeResponse {
	if principal.Anonymous() {
		return nil
	}
	id := principal.Identity
	return &models.MeResponse{
		Username:  id.Username,
		BoothName: id.BoothName,
		EventID:   id.EventID,
		IsAdmin:   id.IsAdmin,
		Role:      principal.Role,
	}
}

// Authenticate resolves credentials into a principal. Absent credentials give the
// anonymous principal; bad ones return the strategy's error.
func (s *AuthService) Authenticate(ctx context.Context, creds Credentials) (*models.Principal, error) {
	if creds.Empty() {
		return models.AnonymousPrincipal(), nil
	}

	identity, err := s.strategy.Resolve(ctx, creds)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return models.AnonymousPrincipal(), nil
	}

	role, err := s.roles.ResolveRole(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &models.Principal{Identity: identity, Role: role}, nil
}

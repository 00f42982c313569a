package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// RoleResolver derives the caller's role. Implementations may enrich identity with
// booth and event bindings found alongside the role.
type RoleResolver interface {
	ResolveRole(ctx context.Context, identity *models.Identity) (models.Role, error)
}

// ClaimsRoleResolver reads the admin flag carried by sessions and self-issued tokens.
type ClaimsRoleResolver struct{}

// ResolveRole implements RoleResolver.
func (ClaimsRoleResolver) ResolveRole(_ context.Context, identity *models.Identity) (models.Role, error) {
	switch {
	case identity == nil:
		return models.RoleAnonymous, nil
	case identity.IsAdmin:
		return models.RoleAdmin, nil
	default:
		return models.RoleUser, nil
	}
}

type profileReader interface {
	FindByID(ctx context.Context, subjectID string) (*models.Profile, error)
}

// ProfileRoleResolver looks the role up in the profiles table on every call so a demotion
// takes effect on the next request.
type ProfileRoleResolver struct {
	profiles profileReader
	logger   *zap.Logger
}

// NewProfileRoleResolver constructs the resolver.
func NewProfileRoleResolver(profiles profileReader, logger *zap.Logger) *ProfileRoleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileRoleResolver{profiles: profiles, logger: logger}
}

// ResolveRole implements RoleResolver. A subject without a profile is a plain user.
func (r *ProfileRoleResolver) ResolveRole(ctx context.Context, identity *models.Identity) (models.Role, error) {
	if identity == nil {
		return models.RoleAnonymous, nil
	}

	profile, err := r.profiles.FindByID(ctx, identity.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoleUser, nil
		}
		r.logger.Error("failed to load profile", zap.String("subject", identity.SubjectID), zap.Error(err))
		return models.RoleAnonymous, appErrors.Internal(err, "failed to resolve role")
	}

	role := models.ParseProfileRole(profile.Role)
	if profile.Username != nil && *profile.Username != "" {
		identity.Username = *profile.Username
	}
	identity.BoothID = profile.BoothID
	identity.EventID = profile.EventID
	if profile.BoothName != nil {
		identity.BoothName = *profile.BoothName
	}
	identity.IsAdmin = role == models.RoleAdmin
	return role, nil
}

package service

import (
	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

// Operation names a gated action of the API.
type Operation string

const (
	OpEventsList     Operation = "events.list"
	OpEventsGet      Operation = "events.get"
	OpEventsCreate   Operation = "events.create"
	OpEventsUpdate   Operation = "events.update"
	OpEventsDelete   Operation = "events.delete"
	OpScheduleRead   Operation = "schedule.read"
	OpScheduleExport Operation = "schedule.export"
	OpPostsRead      Operation = "posts.read"
	OpTimelineRead   Operation = "timeline.read"
	OpPostsCreate    Operation = "posts.create"
	OpMeRead         Operation = "me.read"
	OpAuthLogin      Operation = "auth.login"
	OpAuthLogout     Operation = "auth.logout"
)

// Operations lists every gated operation.
var Operations = []Operation{
	OpEventsList, OpEventsGet, OpEventsCreate, OpEventsUpdate, OpEventsDelete,
	OpScheduleRead, OpScheduleExport, OpPostsRead, OpTimelineRead, OpPostsCreate,
	OpMeRead, OpAuthLogin, OpAuthLogout,
}

// AccessPolicy maps operations to the minimum role allowed to perform them. It holds no
// request state and is safe for concurrent use.
type AccessPolicy struct {
	minimum map[Operation]models.Role
}

// NewAccessPolicy builds the policy. With publicReads disabled, schedule, post and timeline
// reads require a signed-in user.
func NewAccessPolicy(publicReads bool) *AccessPolicy {
	contentRead := models.RoleUser
	if publicReads {
		contentRead = models.RoleAnonymous
	}
	return &AccessPolicy{minimum: map[Operation]models.Role{
		OpEventsList:     models.RoleAnonymous,
		OpEventsGet:      models.RoleAnonymous,
		OpEventsCreate:   models.RoleStaff,
		OpEventsUpdate:   models.RoleStaff,
		OpEventsDelete:   models.RoleAdmin,
		OpScheduleRead:   contentRead,
		OpScheduleExport: contentRead,
		OpPostsRead:      contentRead,
		OpTimelineRead:   contentRead,
		OpPostsCreate:    models.RoleUser,
		OpMeRead:         models.RoleAnonymous,
		OpAuthLogin:      models.RoleAnonymous,
		OpAuthLogout:     models.RoleAnonymous,
	}}
}

// MinimumRole returns the lowest role allowed to perform op. Unknown operations require admin.
func (p *AccessPolicy) MinimumRole(op Operation) models.Role {
	if role, ok := p.minimum[op]; ok {
		return role
	}
	return models.RoleAdmin
}

// Decide returns nil when role may perform op, ErrUnauthorized for an anonymous caller
// below the minimum and ErrForbidden for an authenticated one.
func (p *AccessPolicy) Decide(role models.Role, op Operation) error {
	if role.AtLeast(p.MinimumRole(op)) {
		return nil
	}
	if !role.AtLeast(models.RoleUser) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "unauthorized")
	}
	return appErrors.Clone(appErrors.ErrForbidden, "forbidden")
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/internal/service"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
	"github.com/noah-isme/event-info-api/pkg/response"
)

// Guard enforces the access policy per route.
type Guard struct {
	policy  *service.AccessPolicy
	metrics *service.MetricsService
}

// NewGuard constructs a guard. metrics may be nil.
func NewGuard(policy *service.AccessPolicy, metrics *service.MetricsService) *Guard {
	return &Guard{policy: policy, metrics: metrics}
}

// Require admits the request only when the caller may perform op. On routes open to
// anonymous callers a rejected credential is ignored; elsewhere its error is returned as is.
func (g *Guard) Require(op service.Operation) gin.HandlerFunc {
	minimum := g.policy.MinimumRole(op)
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)

		if authErr := AuthErrorFrom(c); authErr != nil && minimum != models.RoleAnonymous {
			g.deny(c, op, principal, authErr)
			return
		}

		if err := g.policy.Decide(principal.Role, op); err != nil {
			g.deny(c, op, principal, err)
			return
		}

		g.metrics.RecordAuthDecision(op, string(principal.Role), service.AuthOutcomeAllowed)
		c.Next()
	}
}

func (g *Guard) deny(c *gin.Context, op service.Operation, principal *models.Principal, err error) {
	outcome := "error"
	switch appErrors.FromError(err).Status {
	case http.StatusUnauthorized:
		outcome = service.AuthOutcomeUnauthorized
	case http.StatusForbidden:
		outcome = service.AuthOutcomeForbidden
	}
	g.metrics.RecordAuthDecision(op, string(principal.Role), outcome)
	response.Abort(c, err)
}

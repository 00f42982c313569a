package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/internal/service"
)

// ContextPrincipalKey is the gin context key storing the resolved principal.
const ContextPrincipalKey = "principal"

// ContextAuthErrorKey holds the credential error of a request whose credentials were rejected.
const ContextAuthErrorKey = "authError"

type authenticator interface {
	Authenticate(ctx context.Context, creds service.Credentials) (*models.Principal, error)
}

// Authenticate resolves the request's credentials once and stores the principal. Rejected
// credentials never abort here: the caller is treated as anonymous and the error is kept for
// Guard to surface on routes that need a signed-in caller.
func Authenticate(auth authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := CredentialsFrom(c, cookieName)
		principal, err := auth.Authenticate(c.Request.Context(), creds)
		if err != nil {
			c.Set(ContextAuthErrorKey, err)
			principal = models.AnonymousPrincipal()
		}
		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// CredentialsFrom extracts the session cookie and bearer token.
func CredentialsFrom(c *gin.Context, cookieName string) service.Credentials {
	var creds service.Credentials
	if cookieName != "" {
		if sid, err := c.Cookie(cookieName); err == nil {
			creds.SessionID = sid
		}
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		creds.BearerToken = strings.TrimSpace(parts[1])
	}
	return creds
}

// PrincipalFrom returns the principal stored by Authenticate, or the anonymous principal.
func PrincipalFrom(c *gin.Context) *models.Principal {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return models.AnonymousPrincipal()
	}
	principal, ok := value.(*models.Principal)
	if !ok || principal == nil {
		return models.AnonymousPrincipal()
	}
	return principal
}

// AuthErrorFrom returns the credential error recorded by Authenticate.
func AuthErrorFrom(c *gin.Context) error {
	value, exists := c.Get(ContextAuthErrorKey)
	if !exists {
		return nil
	}
	err, _ := value.(error)
	return err
}

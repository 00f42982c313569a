package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/event-info-api/internal/models"
)

func TestCredentialsFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
	c.Request.Header.Set("Authorization", "bearer  token-1 ")

	creds := CredentialsFrom(c, "sid")
	assert.Equal(t, "abc", creds.SessionID)
	assert.Equal(t, "token-1", creds.BearerToken)

	c.Request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, CredentialsFrom(c, "").BearerToken)
	assert.Empty(t, CredentialsFrom(c, "").SessionID)
}

func TestAuthenticateStoresPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &fakeAuthenticator{principal: principalWithRole(models.RoleStaff)}
	router := gin.New()
	router.Use(Authenticate(auth, "sid"))

	var got *models.Principal
	var gotErr error
	router.GET("/", func(c *gin.Context) {
		got = PrincipalFrom(c)
		gotErr = AuthErrorFrom(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer t")
	serve(router, req)

	assert.Equal(t, models.RoleStaff, got.Role)
	assert.NoError(t, gotErr)
	assert.Equal(t, "t", auth.lastCreds.BearerToken)
}

func TestAuthenticateFallsBackToAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	failure := errors.New("boom")
	router := gin.New()
	router.Use(Authenticate(&fakeAuthenticator{err: failure}, "sid"))

	var got *models.Principal
	var gotErr error
	router.GET("/", func(c *gin.Context) {
		got = PrincipalFrom(c)
		gotErr = AuthErrorFrom(c)
		c.Status(http.StatusNoContent)
	})
	serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, got.Anonymous())
	assert.Equal(t, models.RoleAnonymous, got.Role)
	assert.ErrorIs(t, gotErr, failure)
}

func TestPrincipalFromWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, PrincipalFrom(c).Anonymous())
	assert.NoError(t, AuthErrorFrom(c))

	c.Set(ContextPrincipalKey, "not a principal")
	assert.True(t, PrincipalFrom(c).Anonymous())
}

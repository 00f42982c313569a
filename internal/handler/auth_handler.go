package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/middleware"
	"github.com/noah-isme/event-info-api/internal/models"
	"github.com/noah-isme/event-info-api/internal/service"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
	"github.com/noah-isme/event-info-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest, previous service.Credentials) (*models.LoginResult, error)
	Logout(ctx context.Context, creds service.Credentials, principal *models.Principal) error
	Me(principal *models.Principal) *models.MeResponse
}

// SessionCookie describes the session cookie. An empty Name disables cookies.
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  SessionCookie
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// Login godoc
// @Summary Sign in with booth credentials
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Username and password are required"))
		return
	}

	previous := service.Credentials{SessionID: middleware.CredentialsFrom(c, h.cookie.Name).SessionID}
	res, err := h.service.Login(c.Request.Context(), req, previous)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := models.LoginResponse{OK: true, User: res.User}
	switch res.Credential.Kind {
	case models.CredentialSession:
		h.setCookie(c, res.Credential.Value, int(time.Until(res.Credential.ExpiresAt).Seconds()))
	case models.CredentialToken:
		body.Token = res.Credential.Value
	}
	response.JSON(c, http.StatusOK, body)
}

// Logout godoc
// @Summary Sign out
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.OKBody
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	creds := middleware.CredentialsFrom(c, h.cookie.Name)
	if err := h.service.Logout(c.Request.Context(), creds, principalFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	if creds.SessionID != "" {
		h.setCookie(c, "", -1)
	}
	response.OK(c)
}

// Me godoc
// @Summary Describe the current caller
// @Description Returns an empty object for anonymous callers.
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.MeResponse
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	me := h.service.Me(principalFromContext(c))
	if me == nil {
		response.JSON(c, http.StatusOK, gin.H{})
		return
	}
	response.JSON(c, http.StatusOK, me)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	if h.cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

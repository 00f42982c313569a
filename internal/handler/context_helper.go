package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/event-info-api/internal/middleware"
	"github.com/noah-isme/event-info-api/internal/models"
	appErrors "github.com/noah-isme/event-info-api/pkg/errors"
)

func principalFromContext(c *gin.Context) *models.Principal {
	return middleware.PrincipalFrom(c)
}

func int64Param(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

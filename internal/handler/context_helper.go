package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clima-laboral-api/internal/middleware"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

func actorFromContext(c *gin.Context) string {
	claims, ok := middleware.CurrentClaims(c)
	if !ok || claims.Subject == "" {
		return ""
	}
	return claims.Subject
}

func surveyIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "survey id must be a positive integer")
	}
	return id, nil
}

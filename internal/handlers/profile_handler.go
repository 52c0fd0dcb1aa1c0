package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_api/internal/middlewares"
	"blog_api/internal/responses"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// GetProfile handles GET /profile and echoes the verified token claims.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims, ok := middlewares.ClaimsFrom(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	responses.Success(c, http.StatusOK, claims)
}

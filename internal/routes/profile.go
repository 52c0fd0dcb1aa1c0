package routes

import (
	"blog_api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type ProfileRoutes struct {
	profileHandler *handlers.ProfileHandler
	gate           gin.HandlerFunc
}

func NewProfileRoutes(profileHandler *handlers.ProfileHandler, gate gin.HandlerFunc) *ProfileRoutes {
	return &ProfileRoutes{profileHandler: profileHandler, gate: gate}
}

func (r *ProfileRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", r.gate, r.profileHandler.GetProfile)
}

package routes

import (
	"blog_api/internal/handlers"
	"blog_api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Users   *handlers.UserHandler
	Posts   *handlers.PostHandler
	Profile *handlers.ProfileHandler
	Health  *handlers.HealthHandler
}

// RegisterRoutes mounts the resource routes behind gate and the
// unauthenticated health and metrics endpoints.
func RegisterRoutes(router *gin.Engine, gate gin.HandlerFunc, h Handlers) {
	api := router.Group("")

	NewUserRoutes(h.Users, gate).RegisterRoutes(api)
	NewPostRoutes(h.Posts, gate).RegisterRoutes(api)
	NewProfileRoutes(h.Profile, gate).RegisterRoutes(api)

	router.GET("/", h.Health.Root)
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

package routes

import (
	"blog_api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type UserRoutes struct {
	userHandler *handlers.UserHandler
	gate        gin.HandlerFunc
}

func NewUserRoutes(userHandler *handlers.UserHandler, gate gin.HandlerFunc) *UserRoutes {
	return &UserRoutes{
		userHandler: userHandler,
		gate:        gate,
	}
}

func (r *UserRoutes) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(r.gate) // All user routes require authentication
	{
		users.GET("", r.userHandler.ListUsers)
		users.POST("", r.userHandler.CreateUser)
		users.GET("/:id", r.userHandler.GetUser)
		users.PUT("/:id", r.userHandler.ReplaceUser)
		users.PATCH("/:id", r.userHandler.MergeUser)
		users.DELETE("/:id", r.userHandler.DeleteUser)
		users.GET("/:id/posts", r.userHandler.ListUserPosts)
	}
}

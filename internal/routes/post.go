package routes

import (
	"blog_api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type PostRoutes struct {
	postHandler *handlers.PostHandler
	gate        gin.HandlerFunc
}

func NewPostRoutes(postHandler *handlers.PostHandler, gate gin.HandlerFunc) *PostRoutes {
	return &PostRoutes{
		postHandler: postHandler,
		gate:        gate,
	}
}

func (r *PostRoutes) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/posts")
	posts.Use(r.gate)
	{
		posts.GET("", r.postHandler.ListPosts)
		posts.POST("", r.postHandler.CreatePost)
		posts.GET("/:id", r.postHandler.GetPost)
		posts.PUT("/:id", r.postHandler.ReplacePost)
		posts.PATCH("/:id", r.postHandler.MergePost)
		posts.DELETE("/:id", r.postHandler.DeletePost)
	}
}

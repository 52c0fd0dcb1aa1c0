package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_api/internal/models"
	"blog_api/internal/responses"
	"blog_api/internal/services"
	"blog_api/internal/utils"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPosts handles GET /posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, ok := parsePagination(c)
	if !ok {
		return
	}

	filter := models.PostFilter{Title: c.Query("title")}
	if raw := c.Query("userId"); raw != "" {
		userID, err := utils.ParseID(raw)
		if err != nil {
			responses.Fail(c, http.StatusBadRequest, "userId must be a positive integer.")
			return
		}
		filter.UserID = &userID
	}

	result, err := h.postService.ListPosts(c.Request.Context(), filter, page)
	if err != nil {
		responses.Error(c, err, "Failed to retrieve posts.")
		return
	}

	responses.Success(c, http.StatusOK, result)
}

// GetPost handles GET /posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err, "Failed to retrieve the post.")
		return
	}

	responses.Success(c, http.StatusOK, post)
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err, "Failed to create post.")
		return
	}

	responses.Success(c, http.StatusCreated, post)
}

// ReplacePost handles PUT /posts/:id
func (h *PostHandler) ReplacePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.ReplacePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.ReplacePost(c.Request.Context(), id, req)
	if err != nil {
		responses.Error(c, err, "Failed to update post.")
		return
	}

	responses.Success(c, http.StatusOK, post)
}

// MergePost handles PATCH /posts/:id
func (h *PostHandler) MergePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.MergePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.MergePost(c.Request.Context(), id, req)
	if err != nil {
		responses.Error(c, err, "Failed to update post.")
		return
	}

	responses.Success(c, http.StatusOK, post)
}

// DeletePost handles DELETE /posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		responses.Error(c, err, "Failed to delete post.")
		return
	}

	responses.NoContent(c)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_api/internal/models"
	"blog_api/internal/responses"
	"blog_api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, ok := parsePagination(c)
	if !ok {
		return
	}

	filter := models.UserFilter{
		Username: c.Query("username"),
		Email:    c.Query("email"),
		City:     c.Query("city"),
	}

	result, err := h.userService.ListUsers(c.Request.Context(), filter, page)
	if err != nil {
		responses.Error(c, err, "Failed to retrieve users.")
		return
	}

	responses.Success(c, http.StatusOK, result)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err, "Failed to retrieve the user.")
		return
	}

	responses.Success(c, http.StatusOK, user)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err, "Failed to create user.")
		return
	}

	responses.Success(c, http.StatusCreated, user)
}

// ReplaceUser handles PUT /users/:id
func (h *UserHandler) ReplaceUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.ReplaceUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ReplaceUser(c.Request.Context(), id, req)
	if err != nil {
		responses.Error(c, err, "Failed to update user.")
		return
	}

	responses.Success(c, http.StatusOK, user)
}

// MergeUser handles PATCH /users/:id
func (h *UserHandler) MergeUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.MergeUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.MergeUser(c.Request.Context(), id, req)
	if err != nil {
		responses.Error(c, err, "Failed to update user.")
		return
	}

	responses.Success(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		responses.Error(c, err, "Failed to delete user.")
		return
	}

	responses.NoContent(c)
}

// ListUserPosts handles GET /users/:id/posts
func (h *UserHandler) ListUserPosts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	posts, err := h.userService.ListUserPosts(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err, "Failed to retrieve posts.")
		return
	}

	responses.Success(c, http.StatusOK, posts)
}

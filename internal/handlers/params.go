package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_api/internal/models"
	"blog_api/internal/responses"
	"blog_api/internal/services"
	"blog_api/internal/utils"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	invalidBodyMessage = "Invalid request body."
	invalidIDMessage   = "Invalid id."
)

// parseID reads the :id path parameter, answering 400 when it is not a
// positive integer.
func parseID(c *gin.Context) (int, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, invalidIDMessage)
		return 0, false
	}
	return id, true
}

// parsePagination reads page and limit, defaulting to 1 and 10.
func parsePagination(c *gin.Context) (models.Pagination, bool) {
	page, pageOK := utils.ParsePositiveInt(c.Query("page"), defaultPage)
	limit, limitOK := utils.ParsePositiveInt(c.Query("limit"), defaultLimit)
	if !pageOK || !limitOK {
		responses.Error(c, services.ErrInvalidPagination, "")
		return models.Pagination{}, false
	}
	return models.Pagination{Page: page, Limit: limit}, true
}

// bindJSON decodes the body into req, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responses.Fail(c, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	return true
}

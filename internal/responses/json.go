package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_api/internal/services"
)

// GenericMessage is sent for failures that were never classified.
const GenericMessage = "Something went wrong!"

// ErrorBody is the error shape handlers answer with.
type ErrorBody struct {
	Error string `json:"error"`
}

// BoundaryBody is the error shape of the top-level failure boundary.
type BoundaryBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Error: message})
}

// Error answers with the status and message of a classified error. Anything
// internal is attached to the context for the request logger and answered
// with fallback, so no detail reaches the client.
func Error(c *gin.Context, err error, fallback string) {
	status, message := Classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = fallback
	}
	Fail(c, status, message)
}

// Abort stops the handler chain with the boundary error shape.
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, BoundaryBody{Status: "error", Message: message})
}

func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindInvalidReference:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Classify returns the HTTP status and client-safe message for err. The
// message is GenericMessage for internal errors.
func Classify(err error) (int, string) {
	var e *services.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, GenericMessage
	}
	status := StatusFor(e.Kind)
	if status == http.StatusInternalServerError {
		return status, GenericMessage
	}
	return status, e.Message
}

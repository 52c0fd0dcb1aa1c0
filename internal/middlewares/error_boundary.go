package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog_api/internal/responses"
)

// ErrorBoundary recovers panics and renders errors that handlers attached
// with c.Error but never answered. Unclassified failures get the generic
// message; classified ones keep their own.
func ErrorBoundary() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				Logger(c).WithField("panic", fmt.Sprint(r)).Error("recovered from panic")
				if c.Writer.Written() {
					c.Abort()
					return
				}
				responses.Abort(c, http.StatusInternalServerError, responses.GenericMessage)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := responses.Classify(err)
		Logger(c).WithError(err).Error("unhandled request error")
		responses.Abort(c, status, message)
	}
}

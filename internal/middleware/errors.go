package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/logging"
)

// ErrorHandler renders the last error a handler attached with c.Error as
//
//	{"error": {"message": ..., "status": ...}}
//
// unless the handler already wrote a response. Unexpected errors are logged
// and reported as a bare 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		renderError(c, c.Errors.Last().Err)
	}
}

// Recovery turns a panic into a 500 with the usual error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		renderError(c, fmt.Errorf("panic: %v", recovered))
	})
}

// NotFound is the handler for unmatched routes.
func NotFound(c *gin.Context) {
	_ = c.Error(apperr.NotFound("Not Found"))
}

func renderError(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"message": apperr.MessageOf(err),
			"status":  status,
		},
	})
}

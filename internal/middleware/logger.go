package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per request once the response is done.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logging.Ctx(c.Request.Context()).Error()
		case status >= 400:
			event = logging.Ctx(c.Request.Context()).Warn()
		default:
			event = logging.Ctx(c.Request.Context()).Info()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

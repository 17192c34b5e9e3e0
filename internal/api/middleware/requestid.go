package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/internal/api/handler"
	"github.com/law-makers/scraper/internal/reqctx"
	"github.com/rs/zerolog/log"
)

const maxRequestIDLen = 64

// RequestID propagates X-Request-ID, generating one when absent, into the
// request context, the gin context and the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(reqctx.HeaderName)
		if len(id) > maxRequestIDLen {
			id = ""
		}
		ctx := reqctx.WithRequestID(c.Request.Context(), id)
		id = reqctx.RequestID(ctx)

		c.Request = c.Request.WithContext(ctx)
		c.Set(handler.RequestIDKey, id)
		c.Header(reqctx.HeaderName, id)
		c.Next()
	}
}

// Logger writes one zerolog line per request after it completes
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Str("request_id", c.GetString(handler.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

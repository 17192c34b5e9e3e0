package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/internal/api/handler"
	"github.com/rs/zerolog/log"
)

// Recovery turns a handler panic into a 500 with the API error shape
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", c.GetString(handler.RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Msg("Handler panicked")
		handler.Abort(c, http.StatusInternalServerError, handler.ErrCodeInternal, "internal server error")
	})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/pkg/models"
)

// healthProbeTimeout bounds a health check that has to start the browser
const healthProbeTimeout = 30 * time.Second

// Health returns a handler for GET /api/v1/health.
// A degraded service still answers 200 so the lightweight path stays in rotation.
func Health(hc HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()
		c.JSON(http.StatusOK, hc.Health(ctx))
	}
}

// Strategies returns a handler for GET /api/v1/strategies
func Strategies() gin.HandlerFunc {
	body := StrategiesResponse{Strategies: models.ListStrategies()}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, body)
	}
}

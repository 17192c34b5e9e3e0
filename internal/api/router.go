// Package api exposes the scraper over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/internal/api/handler"
	"github.com/law-makers/scraper/internal/api/middleware"
	"github.com/law-makers/scraper/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the routes call into
type Deps struct {
	Scraper handler.Scraper
	Bulk    handler.BulkScraper
	Health  handler.HealthChecker
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  RequestID → Recovery → Logger
//	API:     Auth (if keys are configured) → RateLimit
//
// Health and metrics sit outside auth so monitoring probes always work.
// ctx bounds the rate limiter's background sweeper.
func NewRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(deps.Health))

	protected := v1.Group("")
	if cfg.AuthEnabled() {
		protected.Use(middleware.Auth(cfg.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.APIRPS, cfg.APIBurst))

	protected.POST("/scrape", handler.Scrape(deps.Scraper, cfg.AllowedDomains))
	protected.POST("/bulk-scrape", handler.BulkScrape(deps.Bulk, cfg.AllowedDomains))
	protected.GET("/strategies", handler.Strategies())

	return r
}

package handler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/internal/engine/batch"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
)

// BulkScrape returns a handler for POST /api/v1/bulk-scrape.
// Every URL is checked before any is scraped; one bad URL rejects the call.
func BulkScrape(bs BulkScraper, allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body BulkScrapeBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}

		if len(body.URLs) > models.MaxBulkURLs {
			Abort(c, http.StatusBadRequest, ErrCodeTooManyURLs,
				fmt.Sprintf("maximum %d URLs per request", models.MaxBulkURLs))
			return
		}

		fields := body.ExtractFields
		if len(fields) == 0 {
			fields = slices.Clone(models.DefaultBulkExtractFields)
		}

		for _, u := range body.URLs {
			req := &models.ScrapeRequest{
				URL:           u,
				Strategy:      models.Strategy(body.Strategy),
				Timeout:       seconds(body.Timeout),
				ExtractFields: slices.Clone(fields),
			}
			req.Normalize()
			if err := req.Validate(); err != nil {
				badRequest(c, fmt.Errorf("%s: %w", u, err))
				return
			}
			if !checkURL(c, u, allowed) {
				return
			}
		}

		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Int("url_count", len(body.URLs)).
			Msg("Received bulk scrape request")

		resp := bs.ScrapeMany(c.Request.Context(), body.URLs, batch.Options{
			Strategy:      models.Strategy(body.Strategy),
			Timeout:       seconds(body.Timeout),
			ExtractFields: fields,
		})
		c.JSON(http.StatusOK, resp)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/internal/validate"
	"github.com/rs/zerolog/log"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Input problems are rejected with 400, or 403 for a domain outside the
// allow-list. Once the request reaches the scraper the reply is always 200;
// a failed scrape carries success=false and an error message.
func Scrape(sc Scraper, allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ScrapeBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}

		req := body.request()
		if err := req.Validate(); err != nil {
			badRequest(c, err)
			return
		}
		if !checkURL(c, req.URL, allowed) {
			return
		}

		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("url", req.URL).
			Str("strategy", string(req.Strategy)).
			Msg("Received scrape request")

		c.JSON(http.StatusOK, sc.Scrape(c.Request.Context(), req))
	}
}

// checkURL applies the safety and allow-list checks, replying on failure
func checkURL(c *gin.Context, rawURL string, allowed []string) bool {
	err := validate.Check(rawURL, allowed)
	switch {
	case err == nil:
		return true
	case errors.Is(err, validate.ErrDomainForbidden):
		Abort(c, http.StatusForbidden, ErrCodeDomainNotAllowed, err.Error())
	default:
		Abort(c, http.StatusBadRequest, ErrCodeUnsafeURL, err.Error())
	}
	return false
}

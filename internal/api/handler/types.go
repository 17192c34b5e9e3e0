package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/scraper/internal/engine/batch"
	"github.com/law-makers/scraper/pkg/models"
)

// Scraper runs one scrape
type Scraper interface {
	Scrape(ctx context.Context, req *models.ScrapeRequest) *models.ScrapeResponse
}

// BulkScraper runs a bulk scrape
type BulkScraper interface {
	ScrapeMany(ctx context.Context, urls []string, opts batch.Options) *models.BulkScrapeResponse
}

// HealthChecker reports service health
type HealthChecker interface {
	Health(ctx context.Context) *models.HealthStatus
}

// Context keys set by the middleware chain
const (
	RequestIDKey = "request_id"
	APIKeyKey    = "api_key"
)

// API error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnsafeURL        = "UNSAFE_URL"
	ErrCodeDomainNotAllowed = "DOMAIN_NOT_ALLOWED"
	ErrCodeTooManyURLs      = "TOO_MANY_URLS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail for non-2xx replies
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Abort replies with status and a structured error and stops the chain
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// ScrapeBody is the JSON body of POST /api/v1/scrape. Timeout is in seconds.
type ScrapeBody struct {
	URL           string         `json:"url" binding:"required"`
	Strategy      string         `json:"strategy" binding:"omitempty,oneof=auto http browser hybrid"`
	Timeout       int            `json:"timeout" binding:"omitempty,min=5,max=120"`
	WaitFor       string         `json:"wait_for"`
	ExtractFields []string       `json:"extract_fields"`
	Options       models.Options `json:"options"`
}

// BulkScrapeBody is the JSON body of POST /api/v1/bulk-scrape
type BulkScrapeBody struct {
	URLs          []string `json:"urls" binding:"required,min=1"`
	Strategy      string   `json:"strategy" binding:"omitempty,oneof=auto http browser hybrid"`
	Timeout       int      `json:"timeout" binding:"omitempty,min=5,max=120"`
	ExtractFields []string `json:"extract_fields"`
}

// StrategiesResponse is the body of GET /api/v1/strategies
type StrategiesResponse struct {
	Strategies []models.StrategyInfo `json:"strategies"`
}

func (b *ScrapeBody) request() *models.ScrapeRequest {
	req := &models.ScrapeRequest{
		URL:           b.URL,
		Strategy:      models.Strategy(b.Strategy),
		Timeout:       seconds(b.Timeout),
		WaitSelector:  b.WaitFor,
		ExtractFields: b.ExtractFields,
		Options:       b.Options,
	}
	req.Normalize()
	return req
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func badRequest(c *gin.Context, err error) {
	Abort(c, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
}

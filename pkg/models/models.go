package models

import (
	"time"
)

// Strategy selects how a page is retrieved
type Strategy string

const (
	StrategyAuto    Strategy = "auto"
	StrategyHTTP    Strategy = "http"
	StrategyBrowser Strategy = "browser"
	StrategyHybrid  Strategy = "hybrid"
)

// Field names accepted in ScrapeRequest.ExtractFields
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldImages         = "images"
	FieldPrice          = "price"
	FieldBrand          = "brand"
	FieldModel          = "model"
	FieldSpecifications = "specifications"
	FieldMetaTags       = "meta_tags"
)

const (
	// MaxBulkURLs is the most URLs a single bulk call accepts
	MaxBulkURLs = 10

	MinTimeout     = 5 * time.Second
	MaxTimeout     = 120 * time.Second
	DefaultTimeout = 30 * time.Second
)

// DefaultExtractFields is used when a request names no fields
var DefaultExtractFields = []string{FieldTitle, FieldDescription, FieldImages, FieldPrice}

// DefaultBulkExtractFields is used when a bulk call names no fields
var DefaultBulkExtractFields = []string{FieldTitle, FieldDescription, FieldImages}

// Options holds the per-request behavioral overrides the engines understand
type Options struct {
	WaitSelector   string `json:"wait_for,omitempty"`
	ScrollToBottom bool   `json:"scroll_to_bottom,omitempty"`
	WaitForImages  bool   `json:"wait_for_images,omitempty"`
}

// SiteOptions are static per-domain hints for the rendering path
type SiteOptions struct {
	WaitSelector   string
	ScrollToBottom bool
	WaitForImages  bool
}

// ScrapeRequest describes a single scrape
type ScrapeRequest struct {
	URL           string
	Strategy      Strategy
	Timeout       time.Duration
	WaitSelector  string
	ExtractFields []string
	Options       Options
}

// RawPage is the uniform output of a fetch executor
type RawPage struct {
	HTML        string
	FinalURL    string
	StatusCode  int
	ContentType string
}

// ExtractedData is the structured record produced from a RawPage
type ExtractedData struct {
	Title          string            `json:"title,omitempty"`
	Description    string            `json:"description,omitempty"`
	Images         []string          `json:"images"`
	Price          string            `json:"price,omitempty"`
	Currency       string            `json:"currency,omitempty"`
	Brand          string            `json:"brand,omitempty"`
	Model          string            `json:"model,omitempty"`
	Specifications map[string]string `json:"specifications"`
	MetaTags       map[string]string `json:"meta_tags"`
}

// NewExtractedData returns an empty record with non-nil collections
func NewExtractedData() *ExtractedData {
	return &ExtractedData{
		Images:         []string{},
		Specifications: map[string]string{},
		MetaTags:       map[string]string{},
	}
}

// ScrapeResponse is the outcome of one scrape. Exactly one of Data and Error is set.
type ScrapeResponse struct {
	URL            string         `json:"url"`
	Success        bool           `json:"success"`
	Data           *ExtractedData `json:"data,omitempty"`
	Error          string         `json:"error,omitempty"`
	StrategyUsed   Strategy       `json:"strategy_used"`
	ProcessingTime float64        `json:"processing_time"`
	Timestamp      time.Time      `json:"timestamp"`
	StatusCode     int            `json:"status_code,omitempty"`
	ContentType    string         `json:"content_type,omitempty"`
	FinalURL       string         `json:"final_url,omitempty"`
}

// NewFailedResponse builds the failure shape for req after elapsed time
func NewFailedResponse(req *ScrapeRequest, err error, elapsed time.Duration) *ScrapeResponse {
	resp := &ScrapeResponse{
		Success:        false,
		Error:          "unknown error",
		ProcessingTime: elapsed.Seconds(),
		Timestamp:      time.Now().UTC(),
	}
	if req != nil {
		resp.URL = req.URL
		resp.StrategyUsed = req.Strategy
	}
	if err != nil && err.Error() != "" {
		resp.Error = err.Error()
	}
	return resp
}

// BulkScrapeResponse aggregates index-aligned results of a bulk call
type BulkScrapeResponse struct {
	TotalURLs      int               `json:"total_urls"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	Results        []*ScrapeResponse `json:"results"`
	ProcessingTime float64           `json:"processing_time"`
	Timestamp      time.Time         `json:"timestamp"`
}

// StrategyInfo describes a retrieval strategy
type StrategyInfo struct {
	Name        Strategy `json:"name"`
	Description string   `json:"description"`
}

// ListStrategies enumerates the supported strategies in a fixed order
func ListStrategies() []StrategyInfo {
	return []StrategyInfo{
		{Name: StrategyAuto, Description: "Pick a strategy from the domain table, defaulting to a plain HTTP fetch"},
		{Name: StrategyHTTP, Description: "Plain HTTP fetch, fast and suitable for server-rendered pages"},
		{Name: StrategyBrowser, Description: "Headless browser rendering for JavaScript-heavy pages"},
		{Name: StrategyHybrid, Description: "HTTP fetch with browser fallback (not yet implemented)"},
	}
}

// HealthStatus reports service health
type HealthStatus struct {
	Status       string    `json:"status"`
	Service      string    `json:"service"`
	BrowserReady bool      `json:"browser_ready"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	Timestamp    time.Time `json:"timestamp"`
}

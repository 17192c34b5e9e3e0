// Package metrics exposes Prometheus collectors for scrape activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_scrapes_total",
			Help: "Total number of single-URL scrapes.",
		},
		[]string{"strategy", "status"},
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scraper_scrape_duration_seconds",
			Help:    "Duration of single-URL scrapes.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"strategy"},
	)

	BulkBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_bulk_batch_size",
			Help:    "Number of URLs per bulk call.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	BrowserContextsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_browser_contexts_active",
			Help: "Browser contexts currently open.",
		},
	)
)

// ObserveScrape records the outcome of one scrape
func ObserveScrape(strategy string, success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	ScrapesTotal.WithLabelValues(strategy, status).Inc()
	ScrapeDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

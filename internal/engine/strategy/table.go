// Package strategy classifies domains by how their pages must be retrieved.
package strategy

import (
	"strings"

	"github.com/law-makers/scraper/pkg/models"
)

// Table is a read-only classification of known domains.
// It is safe for concurrent use.
type Table struct {
	browser []string
	http    []string
	sites   map[string]models.SiteOptions
}

// Default returns the built-in table of known retail domains
func Default() *Table {
	return New(
		[]string{
			"cb2.com",
			"walmart.com",
			"wayfair.com",
			"overstock.com",
			"homedepot.com",
			"lowes.com",
			"target.com",
			"bestbuy.com",
			"macys.com",
			"nordstrom.com",
		},
		[]string{
			"amazon.com",
			"ebay.com",
			"etsy.com",
			"craigslist.org",
			"facebook.com",
			"instagram.com",
		},
		map[string]models.SiteOptions{
			"cb2.com": {
				WaitSelector:   ".product-details",
				ScrollToBottom: true,
				WaitForImages:  true,
			},
			"walmart.com": {
				WaitSelector: `[data-testid="product-title"]`,
			},
			"wayfair.com": {
				WaitSelector:   ".ProductDetailInfoBlock",
				ScrollToBottom: true,
			},
		},
	)
}

// New builds a table from rendering-required domains, lightweight-safe domains
// and per-site options. Domains are normalized on the way in.
func New(browser, http []string, sites map[string]models.SiteOptions) *Table {
	t := &Table{
		sites: make(map[string]models.SiteOptions, len(sites)),
	}
	for _, d := range browser {
		t.browser = append(t.browser, normalize(d))
	}
	for _, d := range http {
		t.http = append(t.http, normalize(d))
	}
	for d, opts := range sites {
		t.sites[normalize(d)] = opts
	}
	return t
}

// Select resolves the strategy for domain. Exact matches are checked before
// suffix matches, and the rendering set always before the lightweight set.
func (t *Table) Select(domain string) models.Strategy {
	d := normalize(domain)
	if d == "" {
		return models.StrategyAuto
	}

	for _, known := range t.browser {
		if d == known {
			return models.StrategyBrowser
		}
	}
	for _, known := range t.http {
		if d == known {
			return models.StrategyHTTP
		}
	}

	for _, known := range t.browser {
		if matches(d, known) {
			return models.StrategyBrowser
		}
	}
	for _, known := range t.http {
		if matches(d, known) {
			return models.StrategyHTTP
		}
	}

	return models.StrategyAuto
}

// SiteOptions returns rendering hints for domain, or the zero value.
func (t *Table) SiteOptions(domain string) models.SiteOptions {
	d := normalize(domain)
	if opts, ok := t.sites[d]; ok {
		return opts
	}
	for known, opts := range t.sites {
		if matches(d, known) {
			return opts
		}
	}
	return models.SiteOptions{}
}

func matches(domain, known string) bool {
	return domain == known || strings.HasSuffix(domain, "."+known)
}

func normalize(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(d, "www.")
}

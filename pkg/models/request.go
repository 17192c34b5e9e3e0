package models

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var knownFields = []string{
	FieldTitle, FieldDescription, FieldImages, FieldPrice,
	FieldBrand, FieldModel, FieldSpecifications, FieldMetaTags,
}

// ParseStrategy converts a user-supplied name into a Strategy.
// An empty name means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyHTTP:
		return StrategyHTTP, nil
	case StrategyBrowser:
		return StrategyBrowser, nil
	case StrategyHybrid:
		return StrategyHybrid, nil
	}
	return "", fmt.Errorf("unknown strategy %q (must be auto, http, browser or hybrid)", s)
}

// IsKnownField reports whether name is an extractable field
func IsKnownField(name string) bool {
	return slices.Contains(knownFields, name)
}

// Normalize fills defaults and removes duplicate field names, keeping first-seen order.
func (r *ScrapeRequest) Normalize() {
	if r.Strategy == "" {
		r.Strategy = StrategyAuto
	}
	if r.Timeout <= 0 {
		r.Timeout = DefaultTimeout
	}
	if len(r.ExtractFields) == 0 {
		r.ExtractFields = slices.Clone(DefaultExtractFields)
		return
	}
	seen := make(map[string]struct{}, len(r.ExtractFields))
	fields := make([]string, 0, len(r.ExtractFields))
	for _, f := range r.ExtractFields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	r.ExtractFields = fields
}

// Validate checks the request against the limits callers must enforce
// before handing it to the scrape engine.
func (r *ScrapeRequest) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url: scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url: missing host")
	}
	if _, err := ParseStrategy(string(r.Strategy)); err != nil {
		return err
	}
	if r.Timeout < MinTimeout || r.Timeout > MaxTimeout {
		return fmt.Errorf("timeout must be between %s and %s", MinTimeout, MaxTimeout)
	}
	for _, f := range r.ExtractFields {
		if !IsKnownField(f) {
			return fmt.Errorf("unknown extract field %q", f)
		}
	}
	return nil
}

package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/scraper/internal/utils/url"
)

const (
	// MaxImages caps the number of images returned per page
	MaxImages = 10

	minImageDimension = 50
)

// Substrings that mark decorative or non-product imagery
var imageDenylist = []string{
	"icon", "logo", "button", "arrow", "star", "rating",
	"social", "badge", "banner", "ad", "placeholder",
}

var imageSourceAttrs = []string{"src", "data-src", "data-lazy-src"}

// Images collects product image URLs in document order across the probes,
// deduplicated and capped at MaxImages.
func Images(doc *goquery.Document, baseURL string) []string {
	images := []string{}
	seen := make(map[string]struct{})

	for _, probe := range imageProbes {
		doc.FindMatcher(probe).EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src := resolveImage(imageSource(img), baseURL)
			if src == "" || !validImage(src, img) {
				return true
			}
			if _, dup := seen[src]; dup {
				return true
			}
			seen[src] = struct{}{}
			images = append(images, src)
			return len(images) < MaxImages
		})
		if len(images) >= MaxImages {
			break
		}
	}

	return images
}

func imageSource(img *goquery.Selection) string {
	for _, attr := range imageSourceAttrs {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolveImage makes root-relative sources absolute and drops anything
// else that is not already an absolute http(s) URL.
func resolveImage(src, baseURL string) string {
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "//"):
		return ""
	case strings.HasPrefix(src, "/"):
		if baseURL == "" {
			return ""
		}
		return urlutil.ResolveURL(baseURL, src)
	case strings.HasPrefix(src, "http"):
		return src
	}
	return ""
}

func validImage(src string, img *goquery.Selection) bool {
	for _, attr := range []string{"width", "height"} {
		v, ok := img.Attr(attr)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n < minImageDimension {
			return false
		}
	}

	lower := strings.ToLower(src)
	for _, bad := range imageDenylist {
		if strings.Contains(lower, bad) {
			return false
		}
	}
	return true
}

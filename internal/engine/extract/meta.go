package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var namedMeta = []string{"description", "keywords", "author", "robots"}

// MetaTags collects the named meta tags plus every og:* property, re-keyed
// as og_<name>.
func MetaTags(doc *goquery.Document) map[string]string {
	meta := map[string]string{}

	for _, name := range namedMeta {
		doc.Find("meta[name]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !strings.EqualFold(sel.AttrOr("name", ""), name) {
				return true
			}
			if content := strings.TrimSpace(sel.AttrOr("content", "")); content != "" {
				meta[name] = content
			}
			return false
		})
	}

	doc.FindMatcher(openGraphMeta).Each(func(_ int, sel *goquery.Selection) {
		property := sel.AttrOr("property", "")
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if content == "" {
			return
		}
		meta["og_"+strings.TrimPrefix(property, "og:")] = content
	})

	return meta
}

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const currencyUSD = "USD"

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d{2})?)\s*\$`),
	regexp.MustCompile(`USD\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d{2})?)\s*USD`),
}

// Price returns the first parseable price among the price probes
func Price(doc *goquery.Document) (price, currency string) {
	for _, probe := range priceProbes {
		text := cleanText(doc.FindMatcher(probe).First().Text())
		if text == "" {
			continue
		}
		if p, c, ok := ParsePrice(text); ok {
			return p, c
		}
	}
	return "", ""
}

// ParsePrice pulls a numeric amount out of text with thousands separators
// removed. currency is "USD" when the text carries a dollar sign or USD token.
func ParsePrice(text string) (price, currency string, ok bool) {
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		price = strings.ReplaceAll(m[1], ",", "")
		if strings.Contains(text, "$") || strings.Contains(text, currencyUSD) {
			currency = currencyUSD
		}
		return price, currency, true
	}
	return "", "", false
}

package extract

import "github.com/andybalholm/cascadia"

// Probes are ordered most site-specific first, most generic last.
var (
	titleProbes = compile(
		`h1[data-testid="product-title"]`,
		`.product-title h1`,
		`.ProductDetailInfoBlock h1`,
		`[data-testid="product-title"]`,
		`.product-name`,
		`.product-title`,
		`#productTitle`,
		`h1`,
		`title`,
	)

	descriptionProbes = compile(
		`.product-description`,
		`.product-details`,
		`[data-testid="product-description"]`,
		`.ProductDetailInfoBlock .description`,
		`#feature-bullets`,
		`.product-summary`,
		`.description`,
	)

	imageProbes = compile(
		`.product-images img`,
		`.product-gallery img`,
		`[data-testid="product-image"] img`,
		`.ProductDetailImages img`,
		`#landingImage`,
		`.carousel img`,
	)

	priceProbes = compile(
		`.price`,
		`.price-current`,
		`[data-testid="price"]`,
		`.ProductDetailPricing`,
		`.a-price-whole`,
		`.sr-only:contains("current price")`,
		`.current-price`,
	)

	brandProbes = compile(
		`[data-testid="brand"]`,
		`.brand`,
		`.product-brand`,
		`.manufacturer`,
		`[itemprop="brand"]`,
	)

	modelProbes = compile(
		`[data-testid="model"]`,
		`.model`,
		`.product-model`,
		`[itemprop="model"]`,
		`.sku`,
	)

	metaDescription = cascadia.MustCompile(`meta[name="description"]`)
	openGraphMeta   = cascadia.MustCompile(`meta[property^="og:"]`)
)

func compile(selectors ...string) []cascadia.Selector {
	out := make([]cascadia.Selector, len(selectors))
	for i, s := range selectors {
		out[i] = cascadia.MustCompile(s)
	}
	return out
}

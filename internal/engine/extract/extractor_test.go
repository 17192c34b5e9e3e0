package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/scraper/pkg/models"
)

const productPage = `<!DOCTYPE html>
<html>
<head>
	<title>Store | Oak Dining Table</title>
	<meta name="description" content="A solid oak dining table for six.">
	<meta name="keywords" content="table, oak">
	<meta name="robots" content="index,follow">
	<meta property="og:title" content="Oak Dining Table">
	<meta property="og:image" content="https://cdn.example.com/oak.jpg">
</head>
<body>
	<div class="product-title"><h1>Oak   Dining
	Table</h1></div>
	<div class="product-description">Solid oak, seats six, hand finished in Vermont.</div>
	<span class="brand">Crate Works</span>
	<span class="sku">OAK-6-2024</span>
	<span class="price">Now $1,234.56</span>
	<div class="product-images">
		<img src="/media/oak-front.jpg" width="800" height="600">
		<img data-src="https://cdn.example.com/oak-side.jpg">
		<img src="/media/oak-front.jpg">
		<img src="https://cdn.example.com/site-logo.png">
		<img src="https://cdn.example.com/thumb.jpg" width="40" height="40">
		<img src="//cdn.example.com/protocol-relative.jpg">
		<img src="media/bare-path.jpg">
	</div>
	<div class="specifications"><table>
		<tr><th>Material</th><td>Oak</td></tr>
		<tr><th>Seats</th><td>6</td></tr>
		<tr><td>lonely cell</td></tr>
	</table></div>
	<div class="features"><ul>
		<li>Finish: Natural oil</li>
		<li>no colon here</li>
		<li>Warranty: 5 years: limited</li>
	</ul></div>
	<div class="specs"><dl>
		<dt>Width</dt><dd>180 cm</dd>
		<dt>Depth</dt><dd>90 cm</dd>
		<dt>Orphan</dt>
	</dl></div>
</body>
</html>`

func page(html string) *models.RawPage {
	return &models.RawPage{HTML: html, FinalURL: "https://shop.example.com/p/oak"}
}

func allFields() []string {
	return []string{
		models.FieldTitle, models.FieldDescription, models.FieldImages,
		models.FieldPrice, models.FieldBrand, models.FieldModel,
	}
}

func TestExtract_ProductPage(t *testing.T) {
	data := Extract(page(productPage), "https://shop.example.com", allFields())

	assert.Equal(t, "Oak Dining Table", data.Title)
	assert.Equal(t, "Solid oak, seats six, hand finished in Vermont.", data.Description)
	assert.Equal(t, "Crate Works", data.Brand)
	assert.Equal(t, "OAK-6-2024", data.Model)
	assert.Equal(t, "1234.56", data.Price)
	assert.Equal(t, "USD", data.Currency)
	assert.Equal(t, []string{
		"https://shop.example.com/media/oak-front.jpg",
		"https://cdn.example.com/oak-side.jpg",
	}, data.Images)

	assert.Equal(t, map[string]string{
		"Material": "Oak",
		"Seats":    "6",
		"Finish":   "Natural oil",
		"Warranty": "5 years: limited",
		"Width":    "180 cm",
		"Depth":    "90 cm",
	}, data.Specifications)

	assert.Equal(t, map[string]string{
		"description": "A solid oak dining table for six.",
		"keywords":    "table, oak",
		"robots":      "index,follow",
		"og_title":    "Oak Dining Table",
		"og_image":    "https://cdn.example.com/oak.jpg",
	}, data.MetaTags)
}

func TestExtract_OnlyRequestedFields(t *testing.T) {
	data := Extract(page(productPage), "https://shop.example.com", []string{models.FieldTitle})

	assert.Equal(t, "Oak Dining Table", data.Title)
	assert.Empty(t, data.Description)
	assert.Empty(t, data.Price)
	assert.Empty(t, data.Images)
	assert.NotEmpty(t, data.MetaTags, "meta tags are always collected")
	assert.NotEmpty(t, data.Specifications, "specifications are always collected")
}

func TestExtract_TitleFallsBackToTitleTag(t *testing.T) {
	html := `<html><head><title>Example Domain</title></head><body><p>hi</p></body></html>`
	data := Extract(page(html), "https://example.com", []string{models.FieldTitle})
	assert.Equal(t, "Example Domain", data.Title)
}

func TestExtract_TitleSkipsShortCandidates(t *testing.T) {
	html := `<html><head><title>Long Enough Title</title></head><body><h1>Hi</h1></body></html>`
	data := Extract(page(html), "https://example.com", []string{models.FieldTitle})
	assert.Equal(t, "Long Enough Title", data.Title)
}

func TestExtract_DescriptionFallsBackToMeta(t *testing.T) {
	html := `<html><head><meta name="description" content="Meta fallback text"></head>
<body><div class="description">too short</div></body></html>`
	data := Extract(page(html), "https://example.com", []string{models.FieldDescription})
	assert.Equal(t, "Meta fallback text", data.Description)
}

func TestExtract_IsIdempotent(t *testing.T) {
	raw := page(productPage)
	first := Extract(raw, "https://shop.example.com", allFields())
	second := Extract(raw, "https://shop.example.com", allFields())
	assert.Equal(t, first, second)
}

func TestExtract_EmptyAndBrokenInput(t *testing.T) {
	empty := Extract(&models.RawPage{}, "", allFields())
	require.NotNil(t, empty)
	assert.Equal(t, models.NewExtractedData(), empty)

	assert.Equal(t, models.NewExtractedData(), Extract(nil, "", allFields()))

	broken := Extract(page(`<html><body><div class="price">Free<div><span`), "", allFields())
	require.NotNil(t, broken)
	assert.Empty(t, broken.Price)
}

func TestExtract_UnknownFieldIgnored(t *testing.T) {
	data := Extract(page(productPage), "https://shop.example.com", []string{"colour", models.FieldBrand})
	assert.Equal(t, "Crate Works", data.Brand)
}

func TestImages_CapDedupeDenylist(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><div class="product-gallery">`)
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<img src="https://cdn.example.com/photo-%d.jpg">`, i)
		fmt.Fprintf(&b, `<img src="https://cdn.example.com/photo-%d.jpg">`, i)
	}
	for _, bad := range []string{"icon", "logo", "badge", "banner", "placeholder", "star-rating"} {
		fmt.Fprintf(&b, `<img src="https://cdn.example.com/%s.png">`, bad)
	}
	b.WriteString(`</div></body></html>`)

	data := Extract(page(b.String()), "https://example.com", []string{models.FieldImages})

	require.Len(t, data.Images, MaxImages)
	seen := map[string]bool{}
	for i, img := range data.Images {
		assert.Equal(t, fmt.Sprintf("https://cdn.example.com/photo-%d.jpg", i), img)
		assert.False(t, seen[img], "duplicate image %s", img)
		seen[img] = true
		for _, bad := range imageDenylist {
			assert.NotContains(t, strings.ToLower(img), bad)
		}
	}
}

func TestImages_OrderAcrossProbes(t *testing.T) {
	html := `<html><body>
<div class="carousel"><img src="https://cdn.example.com/c.jpg"></div>
<div class="product-images"><img src="https://cdn.example.com/p.jpg"></div>
</body></html>`
	data := Extract(page(html), "https://example.com", []string{models.FieldImages})
	assert.Equal(t, []string{"https://cdn.example.com/p.jpg", "https://cdn.example.com/c.jpg"}, data.Images)
}

func TestImages_LazyAttributes(t *testing.T) {
	html := `<html><body><div class="product-images">
<img data-lazy-src="https://cdn.example.com/lazy.jpg">
<img src="" data-src="/media/deferred.jpg">
</div></body></html>`
	data := Extract(page(html), "https://example.com", []string{models.FieldImages})
	assert.Equal(t, []string{"https://cdn.example.com/lazy.jpg", "https://example.com/media/deferred.jpg"}, data.Images)
}

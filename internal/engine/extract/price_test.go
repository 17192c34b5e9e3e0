package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		text     string
		price    string
		currency string
		ok       bool
	}{
		{"$1,234.56", "1234.56", "USD", true},
		{"99.99 USD", "99.99", "USD", true},
		{"USD 45", "45", "USD", true},
		{"19.99$", "19.99", "USD", true},
		{"Sale: $12 today", "12", "USD", true},
		{"Free", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range cases {
		price, currency, ok := ParsePrice(tc.text)
		assert.Equal(t, tc.ok, ok, "ok for %q", tc.text)
		assert.Equal(t, tc.price, price, "price for %q", tc.text)
		assert.Equal(t, tc.currency, currency, "currency for %q", tc.text)
	}
}

func TestPrice_TriesNextProbeWhenUnparseable(t *testing.T) {
	html := `<html><body>
<span class="price">Call for price</span>
<span class="current-price">$249.00</span>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	price, currency := Price(doc)
	assert.Equal(t, "249.00", price)
	assert.Equal(t, "USD", currency)
}

func TestPrice_ScreenReaderText(t *testing.T) {
	html := `<html><body><span class="sr-only">current price $75.10</span></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	price, _ := Price(doc)
	assert.Equal(t, "75.10", price)
}

func TestPrice_ScreenReaderTextBeforeCurrentPrice(t *testing.T) {
	html := `<html><body>
<span class="current-price">$80.00</span>
<span class="sr-only">current price $64.50</span>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	price, _ := Price(doc)
	assert.Equal(t, "64.50", price)
}

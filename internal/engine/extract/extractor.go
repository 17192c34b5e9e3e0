// Package extract turns rendered or fetched markup into a structured product record.
//
// Every field is resolved independently by walking an ordered list of CSS
// probes and keeping the first match that passes a small validity check.
// Extraction never fails: unparseable markup yields an empty record and a
// problem with one field leaves the others intact.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	minTitleLen       = 4
	minDescriptionLen = 11
)

// Extract builds an ExtractedData from raw for the requested fields.
// Specifications and meta tags are always collected.
func Extract(raw *models.RawPage, baseURL string, fields []string) *models.ExtractedData {
	data := models.NewExtractedData()
	if raw == nil || strings.TrimSpace(raw.HTML) == "" {
		return data
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw.HTML))
	if err != nil {
		log.Warn().Err(err).Str("url", raw.FinalURL).Msg("Failed to parse HTML")
		return data
	}

	for _, field := range fields {
		switch field {
		case models.FieldTitle:
			guard(field, func() { data.Title = Title(doc) })
		case models.FieldDescription:
			guard(field, func() { data.Description = Description(doc) })
		case models.FieldImages:
			guard(field, func() { data.Images = Images(doc, baseURL) })
		case models.FieldPrice:
			guard(field, func() { data.Price, data.Currency = Price(doc) })
		case models.FieldBrand:
			guard(field, func() { data.Brand = firstText(doc, brandProbes, 1) })
		case models.FieldModel:
			guard(field, func() { data.Model = firstText(doc, modelProbes, 1) })
		case models.FieldSpecifications, models.FieldMetaTags:
		default:
			log.Debug().Str("field", field).Msg("Ignoring unknown extract field")
		}
	}

	guard(models.FieldSpecifications, func() { data.Specifications = Specifications(doc) })
	guard(models.FieldMetaTags, func() { data.MetaTags = MetaTags(doc) })

	return data
}

// Title returns the first probe text longer than three characters
func Title(doc *goquery.Document) string {
	return firstText(doc, titleProbes, minTitleLen)
}

// Description returns the first probe text longer than ten characters,
// falling back to the meta description.
func Description(doc *goquery.Document) string {
	if text := firstText(doc, descriptionProbes, minDescriptionLen); text != "" {
		return text
	}
	content, _ := doc.FindMatcher(metaDescription).First().Attr("content")
	return strings.TrimSpace(content)
}

// firstText checks only the first element each probe matches
func firstText(doc *goquery.Document, probes []cascadia.Selector, minLen int) string {
	for _, probe := range probes {
		sel := doc.FindMatcher(probe).First()
		if sel.Length() == 0 {
			continue
		}
		if text := cleanText(sel.Text()); len([]rune(text)) >= minLen {
			return text
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func guard(field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("field", field).Interface("panic", r).Msg("Field extraction failed")
		}
	}()
	fn()
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

type containerShape int

const (
	shapeTable containerShape = iota
	shapeList
	shapeDefinitions
)

type specContainer struct {
	sel   cascadia.Selector
	shape containerShape
}

var specContainers = []specContainer{
	{cascadia.MustCompile(`.specifications table`), shapeTable},
	{cascadia.MustCompile(`.product-specs table`), shapeTable},
	{cascadia.MustCompile(`.details table`), shapeTable},
	{cascadia.MustCompile(`.features ul`), shapeList},
	{cascadia.MustCompile(`.specs dl`), shapeDefinitions},
}

var (
	tableRow  = cascadia.MustCompile(`tr`)
	tableCell = cascadia.MustCompile(`td, th`)
	listItem  = cascadia.MustCompile(`li`)
	defTerm   = cascadia.MustCompile(`dt`)
	defDesc   = cascadia.MustCompile(`dd`)
)

// Specifications flattens the first match of each known spec container into
// one key/value map. Later containers overwrite earlier keys.
func Specifications(doc *goquery.Document) map[string]string {
	specs := map[string]string{}

	for _, c := range specContainers {
		container := doc.FindMatcher(c.sel).First()
		if container.Length() == 0 {
			continue
		}
		switch c.shape {
		case shapeTable:
			parseTable(container, specs)
		case shapeList:
			parseList(container, specs)
		case shapeDefinitions:
			parseDefinitions(container, specs)
		}
	}

	return specs
}

func parseTable(table *goquery.Selection, specs map[string]string) {
	table.FindMatcher(tableRow).Each(func(_ int, row *goquery.Selection) {
		cells := row.FindMatcher(tableCell)
		if cells.Length() < 2 {
			return
		}
		put(specs, cells.Eq(0).Text(), cells.Eq(1).Text())
	})
}

func parseList(list *goquery.Selection, specs map[string]string) {
	list.FindMatcher(listItem).Each(func(_ int, li *goquery.Selection) {
		key, value, ok := strings.Cut(li.Text(), ":")
		if !ok {
			return
		}
		put(specs, key, value)
	})
}

func parseDefinitions(dl *goquery.Selection, specs map[string]string) {
	terms := dl.FindMatcher(defTerm)
	defs := dl.FindMatcher(defDesc)
	n := min(terms.Length(), defs.Length())
	for i := 0; i < n; i++ {
		put(specs, terms.Eq(i).Text(), defs.Eq(i).Text())
	}
}

func put(specs map[string]string, key, value string) {
	key, value = cleanText(key), cleanText(value)
	if key == "" || value == "" {
		return
	}
	specs[key] = value
}

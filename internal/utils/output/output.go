// Package output renders scrape results for the command line.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/law-makers/scraper/pkg/models"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{
	"url", "success", "strategy_used", "status_code", "title", "description",
	"price", "currency", "brand", "model", "images", "specifications",
	"error", "processing_time",
}

// ParseFormat validates a user-supplied format name. Empty means json.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format %q (must be json or csv)", s)
}

// Write renders doc as indented JSON, or results as CSV rows
func Write(w io.Writer, format string, doc any, results []*models.ScrapeResponse) error {
	if format == FormatCSV {
		return WriteCSV(w, results)
	}
	return WriteJSON(w, doc)
}

// WriteJSON writes v as indented JSON followed by a newline
func WriteJSON(w io.Writer, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	content = append(content, '\n')
	_, err = w.Write(content)
	return err
}

// WriteCSV writes one row per result under a fixed header.
// Images are space separated; specifications are "key=value" pairs joined by "; " in key order.
func WriteCSV(w io.Writer, results []*models.ScrapeResponse) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := writer.Write(row(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Save creates path and renders into it
func Save(path, format string, doc any, results []*models.ScrapeResponse) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, format, doc, results); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func row(r *models.ScrapeResponse) []string {
	status := ""
	if r.StatusCode > 0 {
		status = strconv.Itoa(r.StatusCode)
	}
	out := []string{
		r.URL,
		strconv.FormatBool(r.Success),
		string(r.StrategyUsed),
		status,
		"", "", "", "", "", "", "", "",
		r.Error,
		strconv.FormatFloat(r.ProcessingTime, 'f', 3, 64),
	}
	if d := r.Data; d != nil {
		out[4] = d.Title
		out[5] = d.Description
		out[6] = d.Price
		out[7] = d.Currency
		out[8] = d.Brand
		out[9] = d.Model
		out[10] = strings.Join(d.Images, " ")
		out[11] = pairs(d.Specifications)
	}
	return out
}

func pairs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, "; ")
}

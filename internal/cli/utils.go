// Package cli provides output rendering for the Shirushi command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/shirushi/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// previewChars bounds page previews in inventories.
const previewChars = 160

// WriteHighlight writes a located highlight to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteHighlight(w io.Writer, doc *models.Document, hl *models.Highlight, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Document  *models.Document  `json:"document"`
			Highlight *models.Highlight `json:"highlight"`
		}{doc, hl})
	default:
		writeHighlightText(w, doc, hl)
		return nil
	}
}

func writeHighlightText(w io.Writer, doc *models.Document, hl *models.Highlight) {
	// Pages are 0-based internally; people count from 1.
	fmt.Fprintf(w, "\nFound %q on page %d of %s\n", hl.Phrase, hl.PageIndex+1, doc.Path)
	if hl.Approximate {
		fmt.Fprintln(w, "(approximate: the exact span could not be resolved on that page)")
	}
	fmt.Fprintf(w, "%d rectangle(s), origin bottom-left:\n", len(hl.Rects))
	for i, r := range hl.Rects {
		fmt.Fprintf(w, "  %2d. x=%.1f y=%.1f w=%.1f h=%.1f\n", i+1, r.X, r.Y, r.W, r.H)
	}
	fmt.Fprintln(w)
}

// PageSummary is one page in a document inventory.
type PageSummary struct {
	PageIndex     int    `json:"page_index"`
	FragmentCount int    `json:"fragment_count"`
	Preview       string `json:"preview"`
}

// WritePages writes a document's page inventory to w in the given format.
func WritePages(w io.Writer, doc *models.Document, pages []*models.PageContent, format OutputFormat) error {
	summaries := summarizePages(pages)
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Document *models.Document `json:"document"`
			Pages    []PageSummary    `json:"pages"`
		}{doc, summaries})
	default:
		fmt.Fprintf(w, "\n%s: %d page(s)\n\n", doc.Path, doc.PageCount)
		for _, s := range summaries {
			fmt.Fprintf(w, "Page %d (%d fragments)\n", s.PageIndex+1, s.FragmentCount)
			if s.Preview != "" {
				fmt.Fprintf(w, "  %s\n", s.Preview)
			}
			fmt.Fprintln(w)
		}
		return nil
	}
}

func summarizePages(pages []*models.PageContent) []PageSummary {
	summaries := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, PageSummary{
			PageIndex:     p.PageIndex,
			FragmentCount: len(p.Fragments),
			Preview:       Truncate(p.FullText, previewChars),
		})
	}
	return summaries
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

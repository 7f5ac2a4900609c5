// Package pagerank ranks a document's pages against a phrase so the engine
// can start scanning where a match is most likely.
package pagerank

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/shirushi/internal/models"
)

// Ranker holds a memory-only full-text index over one document's page texts.
type Ranker struct {
	index bleve.Index
}

// pageDoc is the indexed shape of one page.
type pageDoc struct {
	Text string `json:"text"`
}

// NewRanker builds a memory-only index from pages. Nil and fragmentless
// pages are skipped, matching what the page scan considers malformed.
func NewRanker(pages []*models.PageContent) (*Ranker, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so page ranking
	// agrees with the engine's own literal-leaning matching.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create page index: %w", err)
	}
	for _, page := range pages {
		if page == nil || len(page.Fragments) == 0 {
			continue
		}
		if err := index.Index(strconv.Itoa(page.PageIndex), pageDoc{Text: page.FullText}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index page %d: %w", page.PageIndex, err)
		}
	}
	return &Ranker{index: index}, nil
}

// Suggest returns up to limit page indexes ranked by relevance to phrase.
// An empty result means no page matched any term.
func (r *Ranker) Suggest(phrase string, limit int) ([]int, error) {
	if limit <= 0 {
		limit = 1
	}
	query := bleve.NewMatchQuery(phrase)
	search := bleve.NewSearchRequest(query)
	search.Size = limit
	results, err := r.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("page search failed: %w", err)
	}
	pages := make([]int, 0, len(results.Hits))
	for _, hit := range results.Hits {
		n, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// Close releases the index.
func (r *Ranker) Close() error {
	return r.index.Close()
}

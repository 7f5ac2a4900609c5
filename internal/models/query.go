package models

import "fmt"

// PhraseQuery represents a request to locate one reference phrase in a document.
type PhraseQuery struct {
	Phrase string `json:"phrase"`
	// ID identifies the resulting highlight. Callers manage uniqueness among
	// outstanding highlights; the server assigns one when it is left empty.
	ID string `json:"id,omitempty"`
	// PageHint is an optional 0-based page to try first. A hint outside the
	// document's page range is ignored and the scan proceeds from page 0.
	PageHint *int `json:"page_hint,omitempty"`
}

// Validate ensures the query has a phrase to locate.
func (q *PhraseQuery) Validate() error {
	if q.Phrase == "" {
		return fmt.Errorf("phrase cannot be empty")
	}
	return nil
}

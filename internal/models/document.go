// Package models defines core data structures for documents, pages, and highlights.
package models

import "time"

// Document represents an opened document with extraction metadata.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	PageCount int       `json:"page_count" db:"page_count"`
	Size      int64     `json:"size" db:"size"`
	ModTime   time.Time `json:"mod_time" db:"mod_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PageContent holds the extracted text layer of a single page.
// FullText is advisory and used for page-level matching only; positional
// work is always derived from Fragments.
type PageContent struct {
	PageIndex int            `json:"page_index"`
	FullText  string         `json:"full_text"`
	Fragments []TextFragment `json:"fragments"`
}

// TextFragment is one positioned run of text on a page. Coordinates are in
// page units with the origin at the bottom-left corner (Y grows upward).
type TextFragment struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

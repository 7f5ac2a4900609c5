// Package storage defines the persistence interface for extracted documents.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/shirushi/internal/models"
)

// ErrNotFound reports that no stored document matches the lookup.
var ErrNotFound = errors.New("document not found")

// Store persists extracted documents and their pages so a file only has to
// be parsed again when it changes on disk.
type Store interface {
	// PutDocument stores doc and its pages, replacing any previous extraction
	// for the same ID.
	PutDocument(ctx context.Context, doc *models.Document, pages []*models.PageContent) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocumentByPath(ctx context.Context, path string) (*models.Document, error)
	// GetPages returns the stored pages ordered by page index.
	GetPages(ctx context.Context, docID string) ([]*models.PageContent, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)

	Close() error
}

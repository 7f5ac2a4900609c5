// Package library manages the set of open documents: extraction, caching,
// page ranking, and phrase lookup.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/docid"
	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/highlight"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/pagerank"
	"github.com/hyperjump/shirushi/internal/storage"
)

// ErrUnknownDocument reports a lookup against a document that is not open.
var ErrUnknownDocument = errors.New("document not open")

// entry is one open document with everything lookups need.
type entry struct {
	doc    *models.Document
	pages  []*models.PageContent
	ranker *pagerank.Ranker
}

// Library coordinates the extractor, the extraction cache, and the engine
// for a set of open documents. All methods are safe for concurrent use.
type Library struct {
	store     storage.Store
	extractor *extract.Extractor
	engine    *highlight.Engine

	mu   sync.RWMutex
	open map[string]*entry // docID -> entry

	logger *zap.Logger // optional; when set, logs debug events
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets a logger for debug output (cache hits, derived hints, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(lib *Library) { lib.logger = l }
}

// NewLibrary creates a library around the given store, extractor, and engine.
func NewLibrary(store storage.Store, extractor *extract.Extractor, engine *highlight.Engine, opts ...Option) *Library {
	lib := &Library{
		store:     store,
		extractor: extractor,
		engine:    engine,
		open:      make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// Open makes the document at path available for lookups and returns it.
// The cached extraction is reused when the file is unchanged (same size and
// mtime); otherwise the file is extracted again and the cache refreshed.
// Opening an already-open unchanged document is a no-op.
func (l *Library) Open(ctx context.Context, path string) (*models.Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	id := docid.DocID(absPath)

	l.mu.RLock()
	if e, ok := l.open[id]; ok && e.doc.Size == info.Size() && e.doc.ModTime.Equal(info.ModTime()) {
		l.mu.RUnlock()
		return e.doc, nil
	}
	l.mu.RUnlock()

	doc, pages, err := l.loadOrExtract(ctx, id, absPath, info)
	if err != nil {
		return nil, err
	}
	ranker, err := pagerank.NewRanker(pages)
	if err != nil {
		return nil, fmt.Errorf("build page ranker: %w", err)
	}

	l.mu.Lock()
	if old, ok := l.open[id]; ok && old.ranker != nil {
		_ = old.ranker.Close()
	}
	l.open[id] = &entry{doc: doc, pages: pages, ranker: ranker}
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Debug("library opened document",
			zap.String("doc_id", id),
			zap.String("path", absPath),
			zap.Int("page_count", doc.PageCount))
	}
	return doc, nil
}

// loadOrExtract returns the cached extraction when the stored document still
// matches the file's size and mtime, extracting and re-caching otherwise.
func (l *Library) loadOrExtract(ctx context.Context, id, absPath string, info os.FileInfo) (*models.Document, []*models.PageContent, error) {
	if stored, err := l.store.GetDocument(ctx, id); err == nil &&
		stored.Size == info.Size() && stored.ModTime.Equal(info.ModTime()) {
		pages, err := l.store.GetPages(ctx, id)
		if err == nil && len(pages) == stored.PageCount {
			if l.logger != nil {
				l.logger.Debug("library using cached extraction", zap.String("doc_id", id))
			}
			return stored, pages, nil
		}
	}

	pages, err := l.extractor.ExtractFile(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("extract %s: %w", absPath, err)
	}
	doc := &models.Document{
		ID:        id,
		Path:      absPath,
		PageCount: len(pages),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}
	if err := l.store.PutDocument(ctx, doc, pages); err != nil {
		return nil, nil, fmt.Errorf("cache extraction: %w", err)
	}
	return doc, pages, nil
}

// Get returns an open document by ID.
func (l *Library) Get(id string) (*models.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.open[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return e.doc, nil
}

// Pages returns the pages of an open document ordered by page index.
func (l *Library) Pages(id string) ([]*models.PageContent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.open[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return e.pages, nil
}

// Documents lists open documents sorted by path.
func (l *Library) Documents() []*models.Document {
	l.mu.RLock()
	docs := make([]*models.Document, 0, len(l.open))
	for _, e := range l.open {
		docs = append(docs, e.doc)
	}
	l.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

// OpenCount returns how many documents are currently open.
func (l *Library) OpenCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.open)
}

// FindPhrase locates the query in an open document's pages. With autoHint
// set and no explicit page hint on the query, the document's page ranker
// supplies one.
func (l *Library) FindPhrase(id string, query *models.PhraseQuery, autoHint bool) (*models.Highlight, error) {
	l.mu.RLock()
	e, ok := l.open[id]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}

	q := *query
	if autoHint && q.PageHint == nil && q.Phrase != "" && e.ranker != nil {
		if suggested, err := e.ranker.Suggest(q.Phrase, 1); err == nil && len(suggested) > 0 {
			hint := suggested[0]
			q.PageHint = &hint
			if l.logger != nil {
				l.logger.Debug("library derived page hint",
					zap.String("doc_id", id),
					zap.Int("page_hint", hint))
			}
		}
	}
	return l.engine.FindPhrase(&q, e.pages)
}

// Remove closes the document and evicts its cached extraction.
func (l *Library) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	e, ok := l.open[id]
	delete(l.open, id)
	l.mu.Unlock()
	if ok && e.ranker != nil {
		_ = e.ranker.Close()
	}
	if err := l.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("evict cached extraction: %w", err)
	}
	if l.logger != nil {
		l.logger.Debug("library removed document", zap.String("doc_id", id))
	}
	return nil
}

// RemoveByPath evicts a document by its file path. Watcher remove events
// carry paths, not IDs.
func (l *Library) RemoveByPath(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	return l.Remove(ctx, docid.DocID(absPath))
}

// Close releases the page rankers of all open documents. The store is owned
// by the caller and stays open.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, e := range l.open {
		if e.ranker != nil {
			_ = e.ranker.Close()
		}
		delete(l.open, id)
	}
	return nil
}

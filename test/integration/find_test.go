// Package integration exercises the full stack against a real extraction
// cache on disk, including reopening from a fresh process-like state.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/highlight"
	"github.com/hyperjump/shirushi/internal/library"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

func TestIntegration_OpenFindReopen(t *testing.T) {
	dir := t.TempDir()

	// 85 filler lines push the signature sentence onto the third synthetic
	// page (40 lines per page).
	var b strings.Builder
	for i := 0; i < 85; i++ {
		fmt.Fprintf(&b, "routine entry %d with nothing of note\n", i)
	}
	b.WriteString("The migration window opens at midnight on Saturday.\n")
	path := filepath.Join(dir, "runbook.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(dir, "documents.db")
	ctx := context.Background()

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	lib := library.NewLibrary(store, extract.NewExtractor(nil), highlight.NewEngine(nil))

	doc, err := lib.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.PageCount != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.PageCount)
	}

	query := &models.PhraseQuery{Phrase: "migration window opens at midnight"}
	hl, err := lib.FindPhrase(doc.ID, query, true)
	if err != nil {
		t.Fatalf("FindPhrase: %v", err)
	}
	if hl.PageIndex != 2 {
		t.Errorf("expected page 2, got %d", hl.PageIndex)
	}
	if len(hl.Rects) == 0 {
		t.Error("expected rectangles")
	}
	if hl.Approximate {
		t.Error("expected an exact span")
	}

	_ = lib.Close()
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// A fresh library over the same database must serve the cached
	// extraction and find the identical highlight.
	store2, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()
	lib2 := library.NewLibrary(store2, extract.NewExtractor(nil), highlight.NewEngine(nil))
	defer lib2.Close()

	doc2, err := lib2.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !doc2.CreatedAt.Equal(doc.CreatedAt) {
		t.Errorf("expected cached extraction, got CreatedAt %v != %v", doc2.CreatedAt, doc.CreatedAt)
	}

	hl2, err := lib2.FindPhrase(doc2.ID, &models.PhraseQuery{Phrase: "migration window opens at midnight"}, true)
	if err != nil {
		t.Fatalf("FindPhrase after reopen: %v", err)
	}
	if hl2.PageIndex != hl.PageIndex {
		t.Errorf("page changed across reopen: %d != %d", hl2.PageIndex, hl.PageIndex)
	}
	if len(hl2.Rects) != len(hl.Rects) {
		t.Errorf("rect count changed across reopen: %d != %d", len(hl2.Rects), len(hl.Rects))
	}
	for i := range hl.Rects {
		if hl.Rects[i] != hl2.Rects[i] {
			t.Errorf("rect %d changed across reopen: %+v != %+v", i, hl.Rects[i], hl2.Rects[i])
		}
	}
}

func TestIntegration_RemoveDropsCacheRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("A short note about nothing in particular.\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewSQLiteStore(filepath.Join(dir, "documents.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	lib := library.NewLibrary(store, extract.NewExtractor(nil), highlight.NewEngine(nil))
	defer lib.Close()

	ctx := context.Background()
	doc, err := lib.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	count, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 cached document, got %d", count)
	}

	if err := lib.Remove(ctx, doc.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	count, err = store.CountDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected 0 cached documents after remove, got %d", count)
	}
}

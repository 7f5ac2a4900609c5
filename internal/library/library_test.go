package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/highlight"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

func newTestLibrary(t *testing.T) (*Library, *storage.SQLiteStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStore(filepath.Join(dir, "documents.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	lib := NewLibrary(store, extract.NewExtractor(nil), highlight.NewEngine(nil))
	t.Cleanup(func() { lib.Close() })
	return lib, store, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLibrary_OpenAndFindPhrase(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	path := filepath.Join(dir, "report.txt")
	writeFile(t, path, "Quarterly revenue grew 12.8% compared to the prior year.")

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !strings.HasPrefix(doc.ID, "doc:") {
		t.Errorf("doc ID = %q, want doc: prefix", doc.ID)
	}
	if doc.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", doc.PageCount)
	}

	hl, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{ID: "hl-1", Phrase: "revenue grew 12.8%"}, false)
	if err != nil {
		t.Fatalf("FindPhrase: %v", err)
	}
	if hl.ID != "hl-1" {
		t.Errorf("highlight ID = %q, want %q", hl.ID, "hl-1")
	}
	if hl.PageIndex != 0 {
		t.Errorf("PageIndex = %d, want 0", hl.PageIndex)
	}
	if hl.Approximate {
		t.Error("Approximate = true, want exact span")
	}
	if len(hl.Rects) == 0 {
		t.Fatal("expected at least one rectangle")
	}
}

func TestLibrary_Open_fastPathReturnsSameDocument(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	path := filepath.Join(dir, "note.txt")
	writeFile(t, path, "The quick brown fox jumps over the lazy dog")

	first, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	second, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if first != second {
		t.Error("unchanged file should return the already-open document")
	}
}

func TestLibrary_Open_reusesCachedExtraction(t *testing.T) {
	lib, store, dir := newTestLibrary(t)
	path := filepath.Join(dir, "cached.txt")
	writeFile(t, path, "The archive committee met on Tuesday afternoon")

	first, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	// A fresh library over the same store must hit the cache, not re-extract.
	other := NewLibrary(store, extract.NewExtractor(nil), highlight.NewEngine(nil))
	defer other.Close()
	second, err := other.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open from fresh library: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed (%v -> %v), expected cached extraction to be reused",
			first.CreatedAt, second.CreatedAt)
	}
	if second.PageCount != first.PageCount {
		t.Errorf("PageCount = %d, want %d", second.PageCount, first.PageCount)
	}
}

func TestLibrary_Open_reextractsOnChange(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	path := filepath.Join(dir, "draft.txt")
	writeFile(t, path, "Original wording about maritime logistics")

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: "maritime logistics"}, false); err != nil {
		t.Fatalf("FindPhrase before change: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	writeFile(t, path, "Rewritten paragraph covering orbital mechanics instead, at a different length")

	reopened, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open after change: %v", err)
	}
	if reopened.Size == doc.Size {
		t.Errorf("Size = %d, expected it to change with the file", reopened.Size)
	}
	if _, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: "orbital mechanics"}, false); err != nil {
		t.Fatalf("FindPhrase after change: %v", err)
	}
	if _, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: "maritime logistics"}, false); !errors.Is(err, highlight.ErrNotFound) {
		t.Errorf("stale phrase error = %v, want ErrNotFound", err)
	}
}

// Both pages carry enough key terms to qualify, but only the second contains
// the full phrase. With autoHint the ranker must steer the scan there;
// without it the scan stops at the first qualifying page, and an explicit
// hint always wins.
func TestLibrary_FindPhrase_autoHintPrefersStrongerPage(t *testing.T) {
	lib, _, dir := newTestLibrary(t)

	lines := make([]string, 0, 42)
	lines = append(lines, "revenue was discussed briefly")
	lines = append(lines, "growth estimates were tabled")
	for i := 2; i < 40; i++ {
		lines = append(lines, "filler sentence without notable words")
	}
	lines = append(lines, "Revenue growth accelerated sharply this quarter")
	lines = append(lines, "Revenue growth accelerated beyond every projection")

	path := filepath.Join(dir, "minutes.txt")
	writeFile(t, path, strings.Join(lines, "\n"))

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.PageCount != 2 {
		t.Fatalf("PageCount = %d, want 2", doc.PageCount)
	}

	auto, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: "revenue growth accelerated"}, true)
	if err != nil {
		t.Fatalf("FindPhrase with autoHint: %v", err)
	}
	if auto.PageIndex != 1 {
		t.Errorf("PageIndex = %d, want 1 (ranker should prefer the page with the full phrase)", auto.PageIndex)
	}

	plain, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: "revenue growth accelerated"}, false)
	if err != nil {
		t.Fatalf("FindPhrase without autoHint: %v", err)
	}
	if plain.PageIndex != 0 {
		t.Errorf("PageIndex = %d, want 0 (scan order without a hint)", plain.PageIndex)
	}

	hint := 0
	hinted, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: "revenue growth accelerated", PageHint: &hint}, true)
	if err != nil {
		t.Fatalf("FindPhrase with hint: %v", err)
	}
	if hinted.PageIndex != 0 {
		t.Errorf("PageIndex = %d, want 0 (explicit hint takes precedence)", hinted.PageIndex)
	}
}

func TestLibrary_FindPhrase_unknownDocument(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	_, err := lib.FindPhrase("doc:missing", &models.PhraseQuery{Phrase: "anything"}, false)
	if !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("error = %v, want ErrUnknownDocument", err)
	}
}

func TestLibrary_Pages(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	path := filepath.Join(dir, "pages.txt")
	writeFile(t, path, "Line one\nLine two")

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pages, err := lib.Pages(doc.ID)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	if pages[0].FullText == "" {
		t.Error("page FullText is empty")
	}
	if len(pages[0].Fragments) != 2 {
		t.Errorf("len(Fragments) = %d, want 2", len(pages[0].Fragments))
	}
}

func TestLibrary_Remove(t *testing.T) {
	lib, store, dir := newTestLibrary(t)
	path := filepath.Join(dir, "gone.txt")
	writeFile(t, path, "Soon to be removed from the library")

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := lib.Remove(context.Background(), doc.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := lib.Get(doc.ID); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("Get after remove: error = %v, want ErrUnknownDocument", err)
	}
	if _, err := store.GetDocument(context.Background(), doc.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cached extraction still present after remove: %v", err)
	}
	if n := lib.OpenCount(); n != 0 {
		t.Errorf("OpenCount = %d, want 0", n)
	}
}

func TestLibrary_RemoveByPath(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	path := filepath.Join(dir, "watched.txt")
	writeFile(t, path, "Tracked by path until deleted")

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := lib.RemoveByPath(context.Background(), path); err != nil {
		t.Fatalf("RemoveByPath: %v", err)
	}
	if _, err := lib.Get(doc.ID); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("Get after remove: error = %v, want ErrUnknownDocument", err)
	}
}

func TestLibrary_Documents_sortedByPath(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	pathB := filepath.Join(dir, "b.txt")
	pathA := filepath.Join(dir, "a.txt")
	writeFile(t, pathB, "Second alphabetically")
	writeFile(t, pathA, "First alphabetically")

	if _, err := lib.Open(context.Background(), pathB); err != nil {
		t.Fatalf("Open b: %v", err)
	}
	if _, err := lib.Open(context.Background(), pathA); err != nil {
		t.Fatalf("Open a: %v", err)
	}

	docs := lib.Documents()
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Path != pathA || docs[1].Path != pathB {
		t.Errorf("order = [%s, %s], want [%s, %s]", docs[0].Path, docs[1].Path, pathA, pathB)
	}
}

func TestLibrary_Open_directory(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	if _, err := lib.Open(context.Background(), dir); err == nil {
		t.Error("expected error opening a directory")
	}
}

func TestLibrary_Open_missingFile(t *testing.T) {
	lib, _, dir := newTestLibrary(t)
	if _, err := lib.Open(context.Background(), filepath.Join(dir, "absent.txt")); err == nil {
		t.Error("expected error opening a missing file")
	}
}

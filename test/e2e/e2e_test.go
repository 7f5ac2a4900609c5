package e2e

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/highlight"
	"github.com/hyperjump/shirushi/internal/library"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/storage"
)

// TestEndToEnd_FindPhraseAcrossFormats writes every corpus document once per
// supported extension, opens all of them through a library backed by a real
// SQLite cache, and runs every phrase case against every format. Flat formats
// collapse the corpus pages onto page zero, so the expected page is adjusted
// per format.
func TestEndToEnd_FindPhraseAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	docDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docDir, 0755); err != nil {
		t.Fatal(err)
	}

	corpus := BuildCorpus()

	store, err := storage.NewSQLiteStore(filepath.Join(dir, "documents.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	lib := library.NewLibrary(store, extract.NewExtractor(nil), highlight.NewEngine(nil))
	defer lib.Close()
	ctx := context.Background()

	type docKey struct{ name, ext string }
	docs := make(map[docKey]*models.Document)
	for _, d := range corpus.Documents {
		for _, ext := range SupportedFileExtensions {
			content, err := BuildMinimalFile(ext, d.Pages...)
			if err != nil {
				t.Fatalf("build %s%s: %v", d.Name, ext, err)
			}
			path := filepath.Join(docDir, d.Name+ext)
			if err := os.WriteFile(path, content, 0644); err != nil {
				t.Fatal(err)
			}
			doc, err := lib.Open(ctx, path)
			if err != nil {
				t.Fatalf("open %s: %v", path, err)
			}
			wantPages := 1
			if PreservesPages(ext) {
				wantPages = len(d.Pages)
			}
			if doc.PageCount != wantPages {
				t.Fatalf("%s%s: expected %d pages, got %d", d.Name, ext, wantPages, doc.PageCount)
			}
			docs[docKey{d.Name, ext}] = doc
		}
	}

	t.Logf("opened %d files; running %d phrase cases per format", len(docs), len(corpus.Cases))

	for _, ext := range SupportedFileExtensions {
		ext := ext
		for _, tc := range corpus.Cases {
			tc := tc
			t.Run(fmt.Sprintf("%s/%s", ext[1:], tc.Description), func(t *testing.T) {
				doc := docs[docKey{tc.Doc, ext}]
				if doc == nil {
					t.Fatalf("no opened document for %s%s", tc.Doc, ext)
				}
				hl, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: tc.Phrase}, false)
				if err != nil {
					t.Fatalf("find %q: %v", tc.Phrase, err)
				}
				wantPage := tc.WantPage
				if !PreservesPages(ext) {
					wantPage = 0
				}
				if hl.PageIndex != wantPage {
					t.Errorf("phrase %q landed on page %d, want %d", tc.Phrase, hl.PageIndex, wantPage)
				}
				if len(hl.Rects) == 0 {
					t.Errorf("phrase %q produced no rectangles", tc.Phrase)
				}
				if hl.Approximate {
					t.Errorf("phrase %q resolved approximately, want an exact span", tc.Phrase)
				}
				for _, r := range hl.Rects {
					if r.W <= 0 || r.H <= 0 {
						t.Errorf("phrase %q produced a degenerate rectangle %+v", tc.Phrase, r)
					}
				}
			})
		}
	}
}

// TestEndToEnd_PageHintsAgreeAcrossFormats verifies that an explicit page
// hint pointing at the right page still produces the same highlight, and
// that auto-derived hints do not change which page an unambiguous phrase
// lands on.
func TestEndToEnd_PageHintsAgreeAcrossFormats(t *testing.T) {
	dir := t.TempDir()

	corpus := BuildCorpus()
	var deck CorpusDocument
	for _, d := range corpus.Documents {
		if len(d.Pages) >= 3 {
			deck = d
			break
		}
	}
	if deck.Name == "" {
		t.Fatal("corpus has no document with three or more pages")
	}

	content, err := BuildMinimalFile(".pptx", deck.Pages...)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, deck.Name+".pptx")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewSQLiteStore(filepath.Join(dir, "documents.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	lib := library.NewLibrary(store, extract.NewExtractor(nil), highlight.NewEngine(nil))
	defer lib.Close()

	doc, err := lib.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range corpus.Cases {
		if tc.Doc != deck.Name {
			continue
		}
		unhinted, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: tc.Phrase}, false)
		if err != nil {
			t.Fatalf("find %q: %v", tc.Phrase, err)
		}
		hint := tc.WantPage
		hinted, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: tc.Phrase, PageHint: &hint}, false)
		if err != nil {
			t.Fatalf("find %q with hint %d: %v", tc.Phrase, hint, err)
		}
		auto, err := lib.FindPhrase(doc.ID, &models.PhraseQuery{Phrase: tc.Phrase}, true)
		if err != nil {
			t.Fatalf("find %q with auto hint: %v", tc.Phrase, err)
		}
		if unhinted.PageIndex != tc.WantPage || hinted.PageIndex != tc.WantPage || auto.PageIndex != tc.WantPage {
			t.Errorf("phrase %q: pages unhinted=%d hinted=%d auto=%d, want all %d",
				tc.Phrase, unhinted.PageIndex, hinted.PageIndex, auto.PageIndex, tc.WantPage)
		}
		if len(hinted.Rects) != len(unhinted.Rects) {
			t.Errorf("phrase %q: hinted produced %d rects, unhinted %d", tc.Phrase, len(hinted.Rects), len(unhinted.Rects))
		}
	}
}

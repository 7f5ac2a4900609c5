package e2e

import (
	"testing"
)

func TestBuildCorpus_DocumentsHavePages(t *testing.T) {
	c := BuildCorpus()
	if len(c.Documents) == 0 {
		t.Fatal("corpus has no documents")
	}
	for _, d := range c.Documents {
		if d.Name == "" {
			t.Error("document with empty name")
		}
		if len(d.Pages) == 0 {
			t.Errorf("document %q has no pages", d.Name)
		}
		for i, p := range d.Pages {
			if p == "" {
				t.Errorf("document %q page %d is empty", d.Name, i)
			}
		}
	}
}

func TestBuildCorpus_CasesReferenceKnownDocuments(t *testing.T) {
	c := BuildCorpus()
	if len(c.Cases) == 0 {
		t.Fatal("corpus has no phrase cases")
	}
	byName := make(map[string]CorpusDocument)
	for _, d := range c.Documents {
		byName[d.Name] = d
	}
	for i, tc := range c.Cases {
		if tc.Phrase == "" {
			t.Errorf("case %d: empty phrase", i)
		}
		if _, ok := byName[tc.Doc]; !ok {
			t.Errorf("case %d references unknown document %q", i, tc.Doc)
		}
	}
}

func TestBuildCorpus_PhraseAppearsOnWantedPage(t *testing.T) {
	c := BuildCorpus()
	byName := make(map[string]CorpusDocument)
	for _, d := range c.Documents {
		byName[d.Name] = d
	}
	for _, tc := range c.Cases {
		doc, ok := byName[tc.Doc]
		if !ok {
			continue
		}
		if !pageContains(doc, tc.WantPage, tc.Phrase) {
			t.Errorf("document %q page %d does not contain %q", tc.Doc, tc.WantPage, tc.Phrase)
		}
	}
}

func TestPageContains(t *testing.T) {
	doc := CorpusDocument{
		Name:  "sample",
		Pages: []string{"First page text here.", "Second page mentions Gravity."},
	}
	tests := []struct {
		page    int
		phrase  string
		contain bool
	}{
		{0, "page text", true},
		{0, "gravity", false},
		{1, "gravity", true},
		{1, "MENTIONS GRAVITY", true},
		{2, "anything", false},
		{-1, "anything", false},
	}
	for i, tt := range tests {
		if got := pageContains(doc, tt.page, tt.phrase); got != tt.contain {
			t.Errorf("test %d: pageContains(page=%d, %q) = %v, want %v", i, tt.page, tt.phrase, got, tt.contain)
		}
	}
}

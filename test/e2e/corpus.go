package e2e

import "strings"

// CorpusDocument is a document in the test corpus. Each entry in Pages is
// the text of one page; page-preserving formats keep the boundaries, flat
// formats flow everything onto page zero.
type CorpusDocument struct {
	Name  string
	Pages []string
}

// PhraseCase defines a phrase to locate, the document it lives in, and the
// 0-based page the highlight must land on when the format preserves pages.
type PhraseCase struct {
	Doc         string
	Phrase      string
	WantPage    int
	Description string
}

// Corpus holds documents and phrase test cases.
type Corpus struct {
	Documents []CorpusDocument
	Cases     []PhraseCase
}

// BuildCorpus returns a corpus of multi-page documents with varied content.
// Every page carries a unique signature sentence so cases can assert the
// highlight landed on the right page.
func BuildCorpus() *Corpus {
	docs := []CorpusDocument{
		{
			Name: "board-minutes",
			Pages: []string{
				"The board convened at nine in the morning. Quarterly revenue grew 12.8% compared to the prior year.",
				"Capital expenditure was deferred until the next fiscal cycle. The dividend proposal passed without objection.",
				"The meeting adjourned after the audit committee presented its findings.",
			},
		},
		{
			Name: "service-agreement",
			Pages: []string{
				"This agreement is entered into by the parties named below. The indemnification clause survives termination of this agreement.",
				"Either party may terminate with ninety days written notice. Payment is due within thirty days of invoice.",
			},
		},
		{
			Name: "launch-checklist",
			Pages: []string{
				"Verify the propellant load against the mission profile. Orbital insertion requires a nominal second stage burn.",
				"Telemetry coverage begins at the downrange tracking station. Recovery vessels hold position along the flight corridor.",
			},
		},
		{
			Name: "herb-garden",
			Pages: []string{
				"Basil thrives in full sun with regular watering. Rosemary prefers dry soil and tolerates neglect.",
				"Mint spreads aggressively unless confined to containers. Harvest thyme before the flowers open.",
			},
		},
		{
			Name: "train-timetable",
			Pages: []string{
				"The express departs the central terminus at seven fifteen. Reserved seating applies on weekday services.",
				"Weekend engineering works divert services via the coastal loop. A replacement bus operates between the junction stations.",
			},
		},
	}

	cases := []PhraseCase{
		{"board-minutes", "revenue grew 12.8%", 0, "phrase with digits on the first page"},
		{"board-minutes", "dividend proposal passed", 1, "phrase on the second page"},
		{"board-minutes", "audit committee presented its findings", 2, "phrase on the last page"},
		{"service-agreement", "indemnification clause survives", 0, "legal phrase on the first page"},
		{"service-agreement", "ninety days written notice", 1, "legal phrase on the second page"},
		{"launch-checklist", "orbital insertion requires", 0, "phrase with different casing than the page"},
		{"launch-checklist", "downrange tracking station", 1, "technical phrase on the second page"},
		{"herb-garden", "Rosemary prefers dry soil", 0, "phrase at the end of the first page"},
		{"herb-garden", "spreads aggressively unless confined", 1, "phrase spanning the middle of a sentence"},
		{"train-timetable", "replacement bus operates", 1, "phrase on the second page of the timetable"},
	}

	return &Corpus{Documents: docs, Cases: cases}
}

// pageContains reports whether the page text contains the phrase,
// case-insensitively. The real pipeline normalizes more aggressively; here a
// lowercase comparison is enough to validate the corpus itself.
func pageContains(doc CorpusDocument, page int, phrase string) bool {
	if page < 0 || page >= len(doc.Pages) {
		return false
	}
	return strings.Contains(strings.ToLower(doc.Pages[page]), strings.ToLower(phrase))
}

package highlight

import (
	"github.com/hyperjump/shirushi/internal/match"
	"github.com/hyperjump/shirushi/internal/models"
)

// Locator picks the page a phrase plausibly lives on.
type Locator struct {
	matcher *match.Matcher
}

// NewLocator creates a Locator that tests pages with the given matcher.
func NewLocator(matcher *match.Matcher) *Locator {
	return &Locator{matcher: matcher}
}

// Locate returns the index of the first page whose advisory full text
// matches the phrase. The hinted page is visited first when the hint is in
// range; the rest follow in ascending order. Absent pages and pages without
// fragments are skipped rather than failing the scan. The policy is greedy:
// the first qualifying page wins and no better match is sought, so a valid
// hint decides ties. The second return value is false when no page matches.
func (l *Locator) Locate(phrase string, pageHint *int, pages []*models.PageContent) (int, bool) {
	for _, i := range visitOrder(pageHint, len(pages)) {
		page := pages[i]
		if page == nil || len(page.Fragments) == 0 {
			continue
		}
		if l.matcher.Matches(page.FullText, phrase) {
			return i, true
		}
	}
	return 0, false
}

// visitOrder lists page indices to try: the hinted page first when it is in
// range, then every other page ascending. An out-of-range hint is ignored.
func visitOrder(hint *int, n int) []int {
	order := make([]int, 0, n)
	hinted := -1
	if hint != nil && *hint >= 0 && *hint < n {
		hinted = *hint
		order = append(order, hinted)
	}
	for i := 0; i < n; i++ {
		if i == hinted {
			continue
		}
		order = append(order, i)
	}
	return order
}

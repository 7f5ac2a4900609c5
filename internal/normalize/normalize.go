// Package normalize canonicalizes extracted text into the comparison form
// shared by phrase matching and span resolution.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun collapses any run of whitespace to a single space.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// usdToken rewrites "usd" plus trailing whitespace to the canonical token.
	usdToken = regexp.MustCompile(`usd\s+`)
	// dollarSign rewrites a literal $ (and any whitespace after it) to the
	// canonical currency token, so "$12,800" and "USD 12800" compare equal.
	dollarSign = regexp.MustCompile(`\$\s*`)
	// thousandsComma matches a comma sitting between two digits.
	thousandsComma = regexp.MustCompile(`(\d),(\d)`)
	// disallowedChar matches everything outside word characters, whitespace,
	// and the basic punctuation kept for comparison.
	disallowedChar = regexp.MustCompile(`[^\w\s.,;:!?$%()\-]`)
)

// Normalize canonicalizes text for comparison: lowercase, single-space
// whitespace, one currency token ("usd "), thousands commas removed, and all
// characters outside word chars, whitespace and `. , ; : ! ? $ % ( ) -`
// stripped. Deterministic and idempotent; currency and comma rewrites run
// before the character strip because they depend on "$" and "," still being
// present.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = usdToken.ReplaceAllString(s, "usd ")
	s = dollarSign.ReplaceAllString(s, "usd ")
	// Adjacent groups like "1,2,3" need a second pass: each replacement
	// consumes the digit that the next separator would match against.
	for thousandsComma.MatchString(s) {
		s = thousandsComma.ReplaceAllString(s, "$1$2")
	}
	s = disallowedChar.ReplaceAllString(s, "")
	// Stripping a character between two spaces leaves a double space, so
	// collapse once more before trimming.
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

package normalize

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases",
			in:   "Revenue Growth",
			want: "revenue growth",
		},
		{
			name: "collapses whitespace runs",
			in:   "net \t profit\n\nmargin",
			want: "net profit margin",
		},
		{
			name: "dollar sign becomes currency token",
			in:   "$12800",
			want: "usd 12800",
		},
		{
			name: "dollar sign with trailing space",
			in:   "$ 12800",
			want: "usd 12800",
		},
		{
			name: "usd token keeps single space",
			in:   "USD   12800",
			want: "usd 12800",
		},
		{
			name: "thousands comma stripped between digits",
			in:   "12,800",
			want: "12800",
		},
		{
			name: "adjacent comma groups fully stripped",
			in:   "1,2,3",
			want: "123",
		},
		{
			name: "comma between words survives",
			in:   "revenue, profit",
			want: "revenue, profit",
		},
		{
			name: "disallowed characters removed",
			in:   "growth* [note]",
			want: "growth note",
		},
		{
			name: "stripped char between spaces leaves one space",
			in:   "a @ b",
			want: "a b",
		},
		{
			name: "kept punctuation survives",
			in:   "q3: up 12.8%; (est.) profit - yes!",
			want: "q3: up 12.8%; (est.) profit - yes!",
		},
		{
			name: "trims edges",
			in:   "  padded  ",
			want: "padded",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "trailing dollar sign",
			in:   "price $",
			want: "price usd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Revenue   12.8% growth",
		"$ 12,800",
		"USD 12800",
		"a @ b",
		"1,2,3,4,5",
		"Q3 (était) — em-dash and accents",
		"usd",
		"$$",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_CurrencyEquivalence(t *testing.T) {
	a := Normalize("$12,800")
	b := Normalize("USD 12800")
	if a != b {
		t.Errorf("Normalize($12,800) = %q, Normalize(USD 12800) = %q, want equal", a, b)
	}
	if a != "usd 12800" {
		t.Errorf("canonical form = %q, want %q", a, "usd 12800")
	}
}

// Package resolve fuzzy-matches free-text names against known employees and
// certificate types. It is read-only: resolution never touches the store.
package resolve

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases a name, strips diacritics ("José" → "jose"), replaces
// punctuation with spaces ("Kroes, R." → "kroes r") and collapses runs of
// whitespace, so similarity is computed on comparable forms.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Similarity scores two strings in [0, 1] as (maxLen − levenshtein) / maxLen
// over their folded forms. A "Last, First" comma form on either side is also
// tried in "First Last" order and the best reading wins, so "Kroes, R."
// matches "R Kroes". Two empty strings score 0: there is nothing to match on.
func Similarity(a, b string) float64 {
	best := rawSimilarity(Fold(a), Fold(b))
	if fa := commaFlip(a); fa != "" {
		if s := rawSimilarity(Fold(fa), Fold(b)); s > best {
			best = s
		}
	}
	if fb := commaFlip(b); fb != "" {
		if s := rawSimilarity(Fold(a), Fold(fb)); s > best {
			best = s
		}
	}
	return best
}

func rawSimilarity(fa, fb string) float64 {
	maxLen := len(fa)
	if len(fb) > maxLen {
		maxLen = len(fb)
	}
	if maxLen == 0 {
		return 0
	}

	dist := levenshtein.Distance(fa, fb, nil)
	return float64(maxLen-dist) / float64(maxLen)
}

// commaFlip rewrites a single "Last, First" form as "First Last". Returns ""
// when s has no comma or more than one.
func commaFlip(s string) string {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return ""
	}
	last := strings.TrimSpace(parts[0])
	first := strings.TrimSpace(parts[1])
	if last == "" || first == "" {
		return ""
	}
	return first + " " + last
}

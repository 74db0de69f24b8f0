// Package source locates report workbooks on disk and loads their sheets,
// memoizing parsed sheets in a parquet cache next to the data.
package source

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a person or filter string for comparison:
// accents removed, upper-cased, whitespace collapsed.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(stripMarks(s))), " ")
}

// NormalizeKeyword folds a file name or keyword for fuzzy matching:
// accents removed, lower-cased, every run of non-alphanumerics turned into one space.
func NormalizeKeyword(s string) string {
	s = strings.ToLower(stripMarks(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug turns s into a file-name-safe token ("Squad Ágil 2" → "squad_agil_2").
func Slug(s string) string {
	slug := strings.ReplaceAll(NormalizeKeyword(s), " ", "_")
	if slug == "" {
		return "x"
	}
	return slug
}

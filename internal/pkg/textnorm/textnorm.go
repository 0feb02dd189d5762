// Package textnorm folds text for accent- and case-insensitive search.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritics, lower-cases and collapses whitespace:
// "  Développeur  Séñior " becomes "developpeur senior".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.Join(strings.Fields(strings.ToLower(result)), " ")
}

// SearchText folds and joins the searchable parts of a record.
func SearchText(parts ...string) string {
	folded := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := Fold(p); f != "" {
			folded = append(folded, f)
		}
	}
	return strings.Join(folded, " ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern folds a user query into an escaped LIKE pattern. Only use it
// against columns stored through Fold.
func LikePattern(query string) string {
	return "%" + likeEscaper.Replace(Fold(query)) + "%"
}

// RawLikePattern escapes a user query for ILIKE against unfolded columns,
// keeping its accents so "Zürich" still matches "Zürich".
func RawLikePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.Join(strings.Fields(query), " ")) + "%"
}

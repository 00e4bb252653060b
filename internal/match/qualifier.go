package match

import (
	"strings"
	"unicode"
)

// qualifierKeywords mark a parenthetical as a version qualifier rather than
// noise (years, catalog numbers). Matching is by substring on the lowercased
// span.
var qualifierKeywords = []string{
	"version",
	"remix",
	"mix",
	"edit",
	"live",
	"acoustic",
	"demo",
	"instrumental",
	"karaoke",
	"reprise",
	"cover",
	"radio",
	"extended",
	"short",
	"album",
	"single",
	"feat",
	"featuring",
	"with",
	"explicit",
	"clean",
	"remaster",
	"remastered",
	"anniversary",
	"deluxe",
}

// ExtractQualifiers splits a title into its base text and the version
// qualifiers found in parentheses, e.g. "Song (Live)" -> ("Song", ["live"]).
//
// Every parenthetical span is removed from the base whether or not it is
// classified as a qualifier. Square-bracket spans are removed unconditionally
// and never treated as qualifiers (they are typically catalog or video IDs).
// An unmatched opener stops extraction and the remainder is kept verbatim.
func ExtractQualifiers(text string) (string, []string) {
	base := text
	var qualifiers []string

	for {
		start := strings.IndexByte(base, '(')
		if start < 0 {
			break
		}
		rel := strings.IndexByte(base[start:], ')')
		if rel < 0 {
			break
		}
		end := start + rel

		qualifier := strings.ToLower(strings.TrimSpace(base[start+1 : end]))
		if isMeaningfulQualifier(qualifier) {
			qualifiers = append(qualifiers, qualifier)
		}

		base = base[:start] + base[end+1:]
	}

	for {
		start := strings.IndexByte(base, '[')
		if start < 0 {
			break
		}
		rel := strings.IndexByte(base[start:], ']')
		if rel < 0 {
			break
		}
		end := start + rel
		base = base[:start] + base[end+1:]
	}

	base = strings.Join(strings.Fields(base), " ")

	return base, qualifiers
}

// isMeaningfulQualifier reports whether a parenthetical span carries version
// information. Bare years and short single alphanumeric tokens (catalog IDs)
// are rejected unless a known keyword appears.
func isMeaningfulQualifier(text string) bool {
	if text == "" {
		return false
	}

	for _, kw := range qualifierKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}

	// Bare 4-digit year
	if len(text) == 4 && isAllDigits(text) {
		return false
	}

	// Short single alphanumeric-only token with no spaces: likely an ID
	if len(text) < 20 && isAllAlphanumeric(text) {
		return false
	}

	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isAllAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

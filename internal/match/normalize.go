package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a raw filename or title into a comparable token
// string: NFC form, lowercased, every non-alphanumeric rune replaced by a
// space, whitespace collapsed.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ToLower(text)

	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(text), " ")
}

// CleanFilename normalizes a file name for comparison while preserving
// parentheses, after stripping square-bracket spans (YouTube IDs and the
// like).
func CleanFilename(name string) string {
	cleaned := norm.NFC.String(name)

	for {
		start := strings.IndexByte(cleaned, '[')
		if start < 0 {
			break
		}
		rel := strings.IndexByte(cleaned[start:], ']')
		if rel < 0 {
			break
		}
		end := start + rel
		cleaned = cleaned[:start] + cleaned[end+1:]
	}

	cleaned = strings.ToLower(cleaned)

	cleaned = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '(' || r == ')' {
			return r
		}
		return ' '
	}, cleaned)

	return strings.Join(strings.Fields(cleaned), " ")
}

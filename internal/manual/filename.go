package manual

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ParseFilename guesses artist and title from a file name. Leading track
// numbers are stripped, then "Artist - Title" is split on the first
// " - " separator. An empty artist means the name held only a title.
func ParseFilename(filename string) (artist, title string) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = stripTrackNumber(name)

	if before, after, found := strings.Cut(name, " - "); found {
		before = strings.TrimSpace(before)
		after = strings.TrimSpace(after)

		// A numeric "artist" is really a track number the stripper missed
		if isAllDigits(before) {
			return "", after
		}

		return before, after
	}

	return "", strings.TrimSpace(name)
}

// stripTrackNumber removes a leading track number and its separator:
// "01 - Name", "01. Name", "1 Name" all become "Name"
func stripTrackNumber(name string) string {
	name = strings.TrimSpace(name)

	digitEnd := 0
	for i, r := range name {
		if r >= '0' && r <= '9' {
			digitEnd = i + 1
		} else {
			break
		}
	}

	if digitEnd == 0 {
		return name
	}

	rest := strings.TrimLeft(name[digitEnd:], " ")

	if stripped, ok := strings.CutPrefix(rest, "-"); ok {
		return strings.TrimLeft(stripped, " ")
	}
	if stripped, ok := strings.CutPrefix(rest, "."); ok {
		return strings.TrimLeft(stripped, " ")
	}

	// Bare number followed by the title, e.g. "01 Name"
	if rest != "" {
		first, _ := firstRune(rest)
		if unicode.IsLetter(first) {
			return rest
		}
	}

	return name
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

package manual

import (
	"os"
	"path/filepath"
	"strings"
)

var coverImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

var coverBaseNames = []string{"cover", "folder", "album", "front", "artwork"}

// FindCoverArt looks for a cover image in an album directory. Well-known
// names (cover.jpg, folder.png, ...) win over arbitrary images; matching
// is case-insensitive. Returns "" when the directory has no image at all.
func FindCoverArt(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	byBase := make(map[string]string)
	fallback := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isCoverExtension(ext) {
			continue
		}

		base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if _, seen := byBase[base]; !seen {
			byBase[base] = filepath.Join(dir, name)
		}
		if fallback == "" {
			fallback = filepath.Join(dir, name)
		}
	}

	for _, known := range coverBaseNames {
		if path, ok := byBase[known]; ok {
			return path
		}
	}

	return fallback
}

func isCoverExtension(ext string) bool {
	for _, e := range coverImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

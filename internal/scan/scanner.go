package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/franz/mbtag/internal/util"
)

// AudioExtensions are the supported audio file extensions
var AudioExtensions = []string{
	".mp3",
	".flac",
	".m4a",
	".aac",
	".ogg",
	".opus",
	".wav",
	".aiff",
	".aif",
	".wma",
}

// maxWalkDepth bounds directory recursion below the album directory
const maxWalkDepth = 3

// AudioFile is a discovered on-disk audio file. DurationMs is 0 until a
// probe succeeds; absence is tolerated everywhere downstream.
type AudioFile struct {
	Path       string
	Stem       string
	SizeBytes  int64
	DurationMs int64
}

// Discover finds audio files under root, sorted by file name for
// deterministic downstream behavior. A root that is itself an audio file
// yields a single-element result.
func Discover(root string) ([]AudioFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	var files []AudioFile

	if !info.IsDir() {
		if isAudioFile(root) {
			files = append(files, newAudioFile(root, info.Size()))
		}
		return files, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			util.WarnLog("Error accessing path %s: %v", path, err)
			return nil // Continue walking
		}

		if d.IsDir() {
			if walkDepth(root, path) > maxWalkDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !isAudioFile(path) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			util.WarnLog("Failed to stat %s: %v", path, err)
			return nil
		}

		files = append(files, newAudioFile(path, fi.Size()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i].Path) < filepath.Base(files[j].Path)
	})

	util.DebugLog("Discovered %d audio files under %s", len(files), root)

	return files, nil
}

func newAudioFile(path string, size int64) AudioFile {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return AudioFile{
		Path:      path,
		Stem:      stem,
		SizeBytes: size,
	}
}

func isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, audioExt := range AudioExtensions {
		if ext == audioExt {
			return true
		}
	}
	return false
}

func walkDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

// ListDirectory prints the contents of an album directory: audio files
// highlighted with sizes, other entries dimmed, then summary counts.
func ListDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if len(entries) == 0 {
		fmt.Println("  (empty directory)")
		return nil
	}

	audioCount := 0
	otherCount := 0

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(path, name)

		if entry.IsDir() {
			fmt.Printf("  + %s/\n", name)
			continue
		}

		size := int64(0)
		if fi, err := entry.Info(); err == nil {
			size = fi.Size()
		}

		if isAudioFile(full) {
			fmt.Printf("  * %s (%s)\n", name, util.FormatSize(size))
			audioCount++
		} else {
			fmt.Printf("    %s (%s)\n", name, util.FormatSize(size))
			otherCount++
		}
	}

	fmt.Println()
	fmt.Printf("  Summary: %d audio file(s), %d other file(s)\n", audioCount, otherCount)

	return nil
}

package manual

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindCoverArtPrefersKnownNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "random.jpg")
	want := writeFile(t, dir, "cover.png")

	if got := FindCoverArt(dir); got != want {
		t.Errorf("FindCoverArt = %q, want %q", got, want)
	}
}

func TestFindCoverArtCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "Folder.JPG")

	if got := FindCoverArt(dir); got != want {
		t.Errorf("FindCoverArt = %q, want %q", got, want)
	}
}

func TestFindCoverArtFallsBackToAnyImage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt")
	want := writeFile(t, dir, "band-photo.webp")

	if got := FindCoverArt(dir); got != want {
		t.Errorf("FindCoverArt = %q, want %q", got, want)
	}
}

func TestFindCoverArtEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt")

	if got := FindCoverArt(dir); got != "" {
		t.Errorf("FindCoverArt = %q, want empty", got)
	}
}

func TestFindCoverArtNamePriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "artwork.jpg")
	want := writeFile(t, dir, "cover.jpg")

	if got := FindCoverArt(dir); got != want {
		t.Errorf("FindCoverArt = %q, want cover over artwork", got)
	}
}

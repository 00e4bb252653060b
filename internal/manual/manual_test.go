package manual

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franz/mbtag/internal/tagger"
)

func fakeMP3(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	data := make([]byte, 256)
	data[0] = 0xFF
	data[1] = 0xFB
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSessionRunScripted(t *testing.T) {
	dir := t.TempDir()
	first := fakeMP3(t, dir, "01 - The Band - First Song.mp3")
	second := fakeMP3(t, dir, "02 - The Band - Second Song.mp3")

	// Album title, album artist, cover path, then artist/title per track.
	// Empty lines accept the suggested defaults from the file names.
	input := strings.Join([]string{
		"My Album",
		"The Band",
		"", // no cover art
		"", // track 1 artist (default: The Band)
		"", // track 1 title (default: First Song)
		"", // track 2 artist
		"", // track 2 title
	}, "\n") + "\n"

	var out bytes.Buffer
	session := NewSession(strings.NewReader(input), &out)

	err := session.Run(dir, Options{Yes: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got, err := tagger.ReadExistingTags(first)
	if err != nil {
		t.Fatalf("reading tags back failed: %v", err)
	}
	if got.Title != "First Song" {
		t.Errorf("title = %q, want default parsed from filename", got.Title)
	}
	if got.Artist != "The Band" {
		t.Errorf("artist = %q", got.Artist)
	}
	if got.Album != "My Album" {
		t.Errorf("album = %q", got.Album)
	}
	if got.Track != 1 || got.TrackTotal != 2 {
		t.Errorf("track = %d/%d, want 1/2", got.Track, got.TrackTotal)
	}

	got, err = tagger.ReadExistingTags(second)
	if err != nil {
		t.Fatalf("reading tags back failed: %v", err)
	}
	if got.Title != "Second Song" || got.Track != 2 {
		t.Errorf("second track = %q (%d)", got.Title, got.Track)
	}

	if !strings.Contains(out.String(), "Summary:") {
		t.Error("output is missing the summary section")
	}
}

func TestSessionDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := fakeMP3(t, dir, "01 - Song.mp3")

	input := "Album\nArtist\n\n\n\n"
	var out bytes.Buffer
	session := NewSession(strings.NewReader(input), &out)

	if err := session.Run(dir, Options{DryRun: true}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := tagger.ReadExistingTags(path); err == nil {
		t.Error("dry run wrote tags")
	}
}

func TestSessionDeclinedConfirmation(t *testing.T) {
	dir := t.TempDir()
	path := fakeMP3(t, dir, "01 - Song.mp3")

	// Last line answers the confirmation prompt with "n"
	input := "Album\nArtist\n\n\n\nn\n"
	var out bytes.Buffer
	session := NewSession(strings.NewReader(input), &out)

	if err := session.Run(dir, Options{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := tagger.ReadExistingTags(path); err == nil {
		t.Error("declined confirmation still wrote tags")
	}
}

func TestSessionNoMP3s(t *testing.T) {
	dir := t.TempDir()

	session := NewSession(strings.NewReader(""), &bytes.Buffer{})
	if err := session.Run(dir, Options{Yes: true}); err == nil {
		t.Error("expected an error for a directory without MP3 files")
	}
}

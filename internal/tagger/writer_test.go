package tagger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/mbtag/internal/match"
	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/scan"
	"github.com/franz/mbtag/internal/util"
)

// fakeMP3 writes a file that carries no ID3 tag yet
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

func TestWriteTagsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := fakeMP3(t, dir, "01 - Opener.mp3")

	album := &musicbrainz.Album{
		ID:          "album-mbid",
		Title:       "Test Album",
		Artist:      "Album Artist",
		ArtistID:    "artist-mbid",
		Date:        "2001-05-20",
		TotalTracks: 2,
		DiscCount:   1,
		Tracks: []musicbrainz.Track{
			{ID: "t1", Position: 1, Title: "Opener", Artist: "Track Artist", RecordingID: "r1", DiscNumber: 1},
			{ID: "t2", Position: 2, Title: "Closer", Artist: "Album Artist", RecordingID: "r2", DiscNumber: 1},
		},
	}

	pair := match.Pair{
		File:  scan.AudioFile{Path: path, Stem: "01 - Opener"},
		Track: album.Tracks[0],
	}

	cover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	if err := WriteTags(pair, album, WriteOptions{CoverArt: cover}); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	got, err := ReadExistingTags(path)
	if err != nil {
		t.Fatalf("ReadExistingTags failed: %v", err)
	}

	if got.Title != "Opener" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Artist != "Track Artist" {
		t.Errorf("artist = %q", got.Artist)
	}
	if got.Album != "Test Album" {
		t.Errorf("album = %q", got.Album)
	}
	if got.AlbumArtist != "Album Artist" {
		t.Errorf("album artist = %q", got.AlbumArtist)
	}
	if got.Track != 1 || got.TrackTotal != 2 {
		t.Errorf("track = %d/%d, want 1/2", got.Track, got.TrackTotal)
	}
	if !got.HasCover {
		t.Error("cover art was not embedded")
	}
}

func TestWriteBasicTagsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := fakeMP3(t, dir, "track.mp3")

	err := WriteBasicTags(path, BasicTags{
		Title:       "Hand Entered",
		Artist:      "Some Artist",
		Album:       "Some Album",
		AlbumArtist: "Various Artists",
		TrackNumber: 3,
		TrackTotal:  12,
	}, nil)
	if err != nil {
		t.Fatalf("WriteBasicTags failed: %v", err)
	}

	got, err := ReadExistingTags(path)
	if err != nil {
		t.Fatalf("ReadExistingTags failed: %v", err)
	}

	if got.Title != "Hand Entered" || got.Artist != "Some Artist" {
		t.Errorf("got %q by %q", got.Title, got.Artist)
	}
	if got.Track != 3 || got.TrackTotal != 12 {
		t.Errorf("track = %d/%d, want 3/12", got.Track, got.TrackTotal)
	}
	if got.HasCover {
		t.Error("unexpected cover art")
	}
}

func TestWriteTagsRejectsNonMP3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0644); err != nil {
		t.Fatal(err)
	}

	album := &musicbrainz.Album{Title: "A", Artist: "B", DiscCount: 1, TotalTracks: 1,
		Tracks: []musicbrainz.Track{{ID: "t1", Position: 1, Title: "T", DiscNumber: 1}}}
	pair := match.Pair{
		File:  scan.AudioFile{Path: path, Stem: "track"},
		Track: album.Tracks[0],
	}

	err := WriteTags(pair, album, WriteOptions{})
	if !errors.Is(err, util.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for flac, got %v", err)
	}
}

func TestSniffImageMime(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), "image/png"},
		{"unknown defaults to jpeg", []byte{0x00, 0x01}, "image/jpeg"},
		{"empty", nil, "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffImageMime(tt.data); got != tt.want {
				t.Errorf("sniffImageMime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2001-05-20", "2001"},
		{"2001-05", "2001"},
		{"2001", "2001"},
		{"", ""},
		{"??", ""},
		{"20x1", ""},
	}

	for _, tt := range tests {
		if got := releaseYear(tt.date); got != tt.want {
			t.Errorf("releaseYear(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestTracksOnDisc(t *testing.T) {
	album := &musicbrainz.Album{
		TotalTracks: 3,
		Tracks: []musicbrainz.Track{
			{Position: 1, DiscNumber: 1},
			{Position: 2, DiscNumber: 1},
			{Position: 1, DiscNumber: 2},
		},
	}

	if got := tracksOnDisc(album, 1); got != 2 {
		t.Errorf("disc 1 = %d tracks, want 2", got)
	}
	if got := tracksOnDisc(album, 2); got != 1 {
		t.Errorf("disc 2 = %d tracks, want 1", got)
	}
	if got := tracksOnDisc(album, 9); got != 3 {
		t.Errorf("unknown disc = %d, want the album total", got)
	}
}

package manual

import "testing"

func TestParseFilename(t *testing.T) {
	tests := []struct {
		input      string
		wantArtist string
		wantTitle  string
	}{
		{"01 - Artist - Title.mp3", "Artist", "Title"},
		{"Artist - Title.mp3", "Artist", "Title"},
		{"01 - Title.mp3", "", "Title"},
		{"01. Title.mp3", "", "Title"},
		{"1 - Title.mp3", "", "Title"},
		{"01 Title.mp3", "", "Title"},
		{"Title.mp3", "", "Title"},
		{"Title.MP3", "", "Title"},
		{"07 - Some Band - Some Song.mp3", "Some Band", "Some Song"},
		{"12 - 99 Problems.mp3", "", "99 Problems"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			artist, title := ParseFilename(tt.input)
			if artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", artist, tt.wantArtist)
			}
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}

func TestStripTrackNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01 - Name", "Name"},
		{"01. Name", "Name"},
		{"1 Name", "Name"},
		{"Name", "Name"},
		{"99", "99"},
		{"2001 A Space Odyssey", "A Space Odyssey"},
	}

	for _, tt := range tests {
		if got := stripTrackNumber(tt.input); got != tt.want {
			t.Errorf("stripTrackNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

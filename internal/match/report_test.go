package match

import (
	"strings"
	"testing"

	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/scan"
)

func TestRenderReport(t *testing.T) {
	album := testAlbum(
		track("t1", "Opening Number", 1, 1, 195000),
		track("t2", "Missing Track", 2, 1, 0),
	)

	assignment := Assignment{
		Pairs: []Pair{
			{
				File:       scan.AudioFile{Path: "/music/01 - opening.mp3", Stem: "01 - opening"},
				Track:      album.Tracks[0],
				Score:      200,
				Confidence: 1.0,
			},
		},
		UnmatchedFiles: []scan.AudioFile{
			{Path: "/music/bonus.mp3", Stem: "bonus"},
		},
		UnmatchedTracks: []musicbrainz.Track{album.Tracks[1]},
	}

	out := RenderReport(assignment, album)

	for _, want := range []string{
		"Test Artist - Test Album",
		"01 - opening.mp3",
		"Opening Number",
		"3:15",
		"200",
		"1.00",
		"Unmatched files:",
		"bonus.mp3",
		"Unmatched tracks:",
		"Missing Track",
		"Matched 1 of 2 files",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q:\n%s", want, out)
		}
	}

	// Single-disc releases have no disc column. go-pretty renders headers
	// uppercased, so compare case-insensitively.
	if strings.Contains(strings.ToUpper(out), "DISC") {
		t.Errorf("single-disc report shows a disc column:\n%s", out)
	}
}

func TestRenderReportMultiDisc(t *testing.T) {
	album := testAlbum(
		track("d1t1", "First", 1, 1, 0),
		track("d2t1", "Second", 1, 2, 0),
	)

	assignment := Assignment{
		Pairs: []Pair{
			{File: scan.AudioFile{Path: "/m/first.mp3", Stem: "first"}, Track: album.Tracks[0], Score: 120, Confidence: 0.6},
			{File: scan.AudioFile{Path: "/m/second.mp3", Stem: "second"}, Track: album.Tracks[1], Score: 120, Confidence: 0.6},
		},
	}

	out := RenderReport(assignment, album)
	if !strings.Contains(out, "DISC") {
		t.Errorf("multi-disc report has no disc column:\n%s", out)
	}
}

func TestRenderTrackListing(t *testing.T) {
	album := testAlbum(
		track("d1t1", "First", 1, 1, 125000),
		track("d2t1", "Second", 1, 2, 0),
	)
	album.Date = "1999"
	album.Tracks[0].DiscTitle = "The Studio Sessions"

	out := RenderTrackListing(album)

	for _, want := range []string{
		"Test Artist - Test Album (1999)",
		"2 track(s) on 2 disc(s)",
		"Disc 1: The Studio Sessions",
		"Disc 2",
		"First",
		"2:05",
		"Second",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing is missing %q:\n%s", want, out)
		}
	}
}

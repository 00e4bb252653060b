package match

import (
	"testing"

	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/scan"
)

func audioFile(stem string, durationMs int64) scan.AudioFile {
	return scan.AudioFile{
		Path:       "/music/" + stem + ".mp3",
		Stem:       stem,
		DurationMs: durationMs,
	}
}

func catalogTrack(title string, position int, lengthMs int64) musicbrainz.Track {
	return musicbrainz.Track{
		ID:         "track-id",
		Position:   position,
		Title:      title,
		Artist:     "Artist",
		LengthMs:   lengthMs,
		DiscNumber: 1,
	}
}

func TestScorePairExactTitle(t *testing.T) {
	file := audioFile("Some Great Song", 0)
	track := catalogTrack("Some Great Song", 1, 0)

	score, confidence, rej := ScorePair(file, track, "Artist")
	if rej != RejectNone {
		t.Fatalf("expected acceptance, got rejection %v (score %d)", rej, score)
	}
	if score < minBaseScore {
		t.Errorf("score %d below floor for identical titles", score)
	}
	if confidence < 0.5 {
		t.Errorf("confidence %.2f too low for identical titles", confidence)
	}
}

func TestScorePairQualifierVeto(t *testing.T) {
	// Both sides carry qualifiers and none cross-match: the pair must be
	// rejected no matter how well the base titles agree.
	file := audioFile("Great Track (Live)", 0)
	track := catalogTrack("Great Track (Remix)", 1, 0)

	score, _, rej := ScorePair(file, track, "Artist")
	if rej != RejectQualifierVeto {
		t.Fatalf("expected qualifier veto, got %v (score %d)", rej, score)
	}
	if score > 0 {
		t.Errorf("vetoed pair has positive score %d", score)
	}
}

func TestScorePairQualifierMatch(t *testing.T) {
	file := audioFile("Great Track (Live)", 0)
	track := catalogTrack("Great Track (Live)", 1, 0)

	score, confidence, rej := ScorePair(file, track, "Artist")
	if rej != RejectNone {
		t.Fatalf("expected acceptance, got %v", rej)
	}

	plainScore, _, _ := ScorePair(audioFile("Great Track", 0), catalogTrack("Great Track", 1, 0), "Artist")
	if score <= plainScore {
		t.Errorf("matching qualifiers scored %d, not above plain pair %d", score, plainScore)
	}
	if confidence <= 0 || confidence > 1 {
		t.Errorf("confidence %.2f out of range", confidence)
	}
}

func TestScorePairOneSidedQualifier(t *testing.T) {
	file := audioFile("Great Track (Live)", 0)
	track := catalogTrack("Great Track", 1, 0)

	_, _, rej := ScorePair(file, track, "Artist")
	if rej != RejectNonPositive {
		t.Fatalf("expected non-positive rejection for one-sided qualifier, got %v", rej)
	}
}

func TestFuzzyScoreBounded(t *testing.T) {
	// The text score must stay on the 0-200 band regardless of input
	// length, or the fixed qualifier and duration adjustments stop
	// mattering.
	exact, ok := fuzzyScore("some great song", "some great song")
	if !ok || exact != maxFuzzyScore {
		t.Fatalf("exact match = (%d, %v), want (%d, true)", exact, ok, maxFuzzyScore)
	}

	prefixed, ok := fuzzyScore("01 - some great song", "some great song")
	if !ok {
		t.Fatal("prefixed match not found")
	}
	if prefixed <= 0 || prefixed >= exact {
		t.Errorf("prefixed match = %d, want in (0, %d)", prefixed, exact)
	}

	scattered, ok := fuzzyScore("some great song", "sgs")
	if !ok {
		t.Fatal("scattered match not found")
	}
	if scattered >= prefixed {
		t.Errorf("scattered match %d not below prefixed match %d", scattered, prefixed)
	}

	if _, ok := fuzzyScore("abc", "xyz"); ok {
		t.Error("unrelated strings reported as a match")
	}
}

func TestScorePairAdjustmentsDominate(t *testing.T) {
	// A very long identical title must not out-scale the veto
	long := "the incredibly long descriptive title of a song that goes on"

	file := audioFile(long+" (Live)", 0)
	track := catalogTrack(long+" (Remix)", 1, 0)

	score, _, rej := ScorePair(file, track, "Artist")
	if rej != RejectQualifierVeto {
		t.Fatalf("expected qualifier veto on long titles, got %v (score %d)", rej, score)
	}
}

func TestScorePairBelowFloor(t *testing.T) {
	file := audioFile("zzz", 0)
	track := catalogTrack("qqq", 1, 0)

	_, _, rej := ScorePair(file, track, "Artist")
	if rej != RejectBelowFloor {
		t.Fatalf("expected below-floor rejection for unrelated names, got %v", rej)
	}
}

func TestScorePairDurationTieBreak(t *testing.T) {
	file := audioFile("Anthem", 180000)

	closeTrack := catalogTrack("Anthem", 1, 181000)
	farTrack := catalogTrack("Anthem", 2, 300000)

	closeScore, _, rej := ScorePair(file, closeTrack, "Artist")
	if rej != RejectNone {
		t.Fatalf("close-duration pair rejected: %v", rej)
	}
	farScore, _, rej := ScorePair(file, farTrack, "Artist")
	if rej != RejectNone {
		t.Fatalf("far-duration pair rejected: %v", rej)
	}

	if closeScore <= farScore {
		t.Errorf("close duration scored %d, not above far duration %d", closeScore, farScore)
	}
}

func TestScorePairDeterministic(t *testing.T) {
	file := audioFile("01 - Some Great Song (Live)", 240000)
	track := catalogTrack("Some Great Song (Live)", 1, 241000)

	s1, c1, r1 := ScorePair(file, track, "Artist")
	s2, c2, r2 := ScorePair(file, track, "Artist")
	if s1 != s2 || c1 != c2 || r1 != r2 {
		t.Errorf("ScorePair not deterministic: (%d,%f,%v) vs (%d,%f,%v)", s1, c1, r1, s2, c2, r2)
	}
}

func TestDurationAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		fileMs  int64
		trackMs int64
		want    int
	}{
		{"exact", 180000, 180000, 80},
		{"within 3s", 180000, 182900, 80},
		{"within 5s", 180000, 184500, 50},
		{"within 10s", 180000, 189000, 25},
		{"within 30s", 180000, 209000, 10},
		{"beyond 30s", 180000, 211000, 0},
		{"file unknown", 0, 180000, 0},
		{"track unknown", 180000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := durationAdjustment(tt.fileMs, tt.trackMs); got != tt.want {
				t.Errorf("durationAdjustment(%d, %d) = %d, want %d", tt.fileMs, tt.trackMs, got, tt.want)
			}
		})
	}
}

func TestQualifiersCrossMatch(t *testing.T) {
	tests := []struct {
		fq, tq string
		want   bool
	}{
		{"live", "live at wembley", true},
		{"remaster", "remastered", true},
		{"remastered", "2019 remaster", true},
		{"acoustic", "acousticversion", true},
		{"live", "remix", false},
		{"demo", "deluxe", false},
		{"extended mix", "radio mix", true},
	}

	for _, tt := range tests {
		if got := qualifiersCrossMatch(tt.fq, tt.tq); got != tt.want {
			t.Errorf("qualifiersCrossMatch(%q, %q) = %v, want %v", tt.fq, tt.tq, got, tt.want)
		}
	}
}

func TestQualifierAdjustment(t *testing.T) {
	if got := qualifierAdjustment(nil, nil); got != noQualifierBonus {
		t.Errorf("no qualifiers = %d, want %d", got, noQualifierBonus)
	}
	if got := qualifierAdjustment([]string{"live"}, nil); got != qualifierMismatchPenalty {
		t.Errorf("file-only qualifier = %d, want %d", got, qualifierMismatchPenalty)
	}
	if got := qualifierAdjustment(nil, []string{"live"}); got != qualifierMismatchPenalty {
		t.Errorf("track-only qualifier = %d, want %d", got, qualifierMismatchPenalty)
	}
	if got := qualifierAdjustment([]string{"live"}, []string{"remix"}); got != qualifierVetoPenalty {
		t.Errorf("disjoint qualifiers = %d, want %d", got, qualifierVetoPenalty)
	}
	if got := qualifierAdjustment([]string{"live"}, []string{"live"}); got != qualifierMatchBonus {
		t.Errorf("one matching qualifier = %d, want %d", got, qualifierMatchBonus)
	}
	if got := qualifierAdjustment([]string{"live", "remastered"}, []string{"live", "remaster"}); got != 2*qualifierMatchBonus {
		t.Errorf("two matching qualifiers = %d, want %d", got, 2*qualifierMatchBonus)
	}
}

func TestWordOverlapScore(t *testing.T) {
	tests := []struct {
		baseName  string
		trackBase string
		want      int
	}{
		{"some great song", "some great song", 100},
		{"some great song", "some other song", 66},
		{"unrelated name", "qqq", 0},
		{"a b c", "a b c", 0}, // all words too short to count
	}

	for _, tt := range tests {
		if got := wordOverlapScore(tt.baseName, tt.trackBase); got != tt.want {
			t.Errorf("wordOverlapScore(%q, %q) = %d, want %d", tt.baseName, tt.trackBase, got, tt.want)
		}
	}
}

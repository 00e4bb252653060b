package match

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/scan"
	"github.com/sahilm/fuzzy"
)

const (
	// minBaseScore is the similarity floor below which a pair is not a candidate
	minBaseScore = 30

	// qualifierMatchBonus is awarded per cross-matching qualifier pair
	qualifierMatchBonus = 100

	// qualifierVetoPenalty applies when both sides carry qualifiers but none
	// cross-match. It is large enough to sink any text score, which is what
	// keeps a live recording from binding to the studio track.
	qualifierVetoPenalty = -1000

	// qualifierMismatchPenalty applies when only one side carries qualifiers
	qualifierMismatchPenalty = -200

	// noQualifierBonus applies when neither side carries qualifiers
	noQualifierBonus = 20

	// confidenceScale converts a raw score into a [0,1] confidence
	confidenceScale = 200.0

	// maxFuzzyScore is the text-similarity ceiling: an exact match scores
	// this, so the qualifier and duration adjustments stay comparable in
	// magnitude to the text score
	maxFuzzyScore = 200
)

// Rejection classifies why a file/track pair was not scored
type Rejection int

const (
	// RejectNone means the pair was accepted
	RejectNone Rejection = iota

	// RejectBelowFloor means text similarity never reached the minimum
	RejectBelowFloor

	// RejectQualifierVeto means both sides had qualifiers and none matched
	RejectQualifierVeto

	// RejectNonPositive means adjustments drove the total to zero or below
	RejectNonPositive
)

// ScorePair computes the match score for a single file/track pairing.
// The returned Rejection is RejectNone when the pair is a usable candidate.
func ScorePair(file scan.AudioFile, track musicbrainz.Track, albumArtist string) (score int, confidence float64, rej Rejection) {
	fileStem := strings.ToLower(file.Stem)

	baseName, fileQualifiers := ExtractQualifiers(fileStem)
	cleanedName := CleanFilename(fileStem)

	trackTitle := strings.ToLower(track.Title)
	trackArtist := strings.ToLower(track.Artist)
	albumArtistLower := strings.ToLower(albumArtist)

	trackBase, trackQualifiers := ExtractQualifiers(trackTitle)

	// Each candidate scores the pair from a different angle; the best one wins.
	baseScore := 0

	if s, ok := fuzzyScore(Normalize(baseName), Normalize(trackBase)); ok {
		baseScore = max(baseScore, s)
	}
	if s, ok := fuzzyScore(fileStem, trackTitle); ok {
		baseScore = max(baseScore, s)
	}
	if s, ok := fuzzyScore(cleanedName, trackBase); ok {
		baseScore = max(baseScore, s)
	}
	if s, ok := fuzzyScore(baseName, fmt.Sprintf("%d %s", track.Position, trackBase)); ok {
		baseScore = max(baseScore, s)
	}
	if s, ok := fuzzyScore(baseName, trackArtist+" "+trackBase); ok {
		baseScore = max(baseScore, s)
	}
	if s, ok := fuzzyScore(baseName, albumArtistLower+" "+trackBase); ok {
		baseScore = max(baseScore, s)
	}

	baseScore = max(baseScore, wordOverlapScore(baseName, trackBase))

	if baseScore < minBaseScore {
		return 0, 0, RejectBelowFloor
	}

	qualifierScore := qualifierAdjustment(fileQualifiers, trackQualifiers)
	durationScore := durationAdjustment(file.DurationMs, track.LengthMs)

	total := baseScore + qualifierScore + durationScore
	if total <= 0 {
		if qualifierScore == qualifierVetoPenalty {
			return total, 0, RejectQualifierVeto
		}
		return total, 0, RejectNonPositive
	}

	confidence = float64(total) / confidenceScale
	if confidence > 1.0 {
		confidence = 1.0
	}

	return total, confidence, RejectNone
}

// fuzzyScore runs a subsequence-style fuzzy match of pattern against text.
// Returns (score, true) when pattern is a fuzzy subsequence of text.
//
// The library's raw score grows super-linearly with match length, which
// would drown the fixed qualifier and duration adjustments, so the match
// is re-scored linearly onto 0..maxFuzzyScore from its character
// positions: coverage (matched characters over text length) weighted by
// contiguity (matched characters adjacent to the previous one). An exact
// match scores maxFuzzyScore; a scattered subsequence scores near zero.
func fuzzyScore(text, pattern string) (int, bool) {
	if text == "" || pattern == "" {
		return 0, false
	}
	matches := fuzzy.Find(pattern, []string{text})
	if len(matches) == 0 {
		return 0, false
	}

	idx := matches[0].MatchedIndexes
	n := len(idx)
	if n == 0 {
		return 0, false
	}

	adjacent := 0
	for i := 1; i < n; i++ {
		if idx[i] == idx[i-1]+1 {
			adjacent++
		}
	}

	coverage := float64(n) / float64(len(text))
	contiguity := 1.0
	if n > 1 {
		contiguity = float64(adjacent) / float64(n-1)
	}

	return int(maxFuzzyScore * coverage * (0.5 + 0.5*contiguity)), true
}

// wordOverlapScore scores the fraction of significant track-title words
// (longer than 3 characters) that appear in the file name, scaled to 0-100.
func wordOverlapScore(baseName, trackBase string) int {
	var titleWords []string
	for _, w := range strings.FieldsFunc(trackBase, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) > 3 {
			titleWords = append(titleWords, w)
		}
	}

	if len(titleWords) == 0 {
		return 0
	}

	matching := 0
	for _, w := range titleWords {
		if strings.Contains(baseName, w) {
			matching++
		}
	}

	ratio := float64(matching) / float64(len(titleWords))
	return int(ratio * 100.0)
}

// qualifierAdjustment scores qualifier compatibility between the two sides
func qualifierAdjustment(fileQualifiers, trackQualifiers []string) int {
	hasFile := len(fileQualifiers) > 0
	hasTrack := len(trackQualifiers) > 0

	switch {
	case hasFile && hasTrack:
		matching := 0
		for _, fq := range fileQualifiers {
			for _, tq := range trackQualifiers {
				if qualifiersCrossMatch(fq, tq) {
					matching++
					break
				}
			}
		}
		if matching == 0 {
			return qualifierVetoPenalty
		}
		return qualifierMatchBonus * matching

	case hasFile || hasTrack:
		return qualifierMismatchPenalty

	default:
		return noQualifierBonus
	}
}

// qualifiersCrossMatch reports whether two qualifier phrases share a word:
// substring containment in either direction, or a common 5-character prefix
// for words longer than 4 characters.
func qualifiersCrossMatch(fq, tq string) bool {
	for _, fw := range strings.Fields(fq) {
		for _, tw := range strings.Fields(tq) {
			if strings.Contains(tw, fw) || strings.Contains(fw, tw) {
				return true
			}
			if len(fw) > 4 && len(tw) > 4 &&
				(strings.HasPrefix(fw, tw[:5]) || strings.HasPrefix(tw, fw[:5])) {
				return true
			}
		}
	}
	return false
}

// durationAdjustment awards a bonus for close playback durations.
// Either duration unknown means no adjustment.
func durationAdjustment(fileMs, trackMs int64) int {
	if fileMs <= 0 || trackMs <= 0 {
		return 0
	}

	diff := fileMs - trackMs
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= 3000:
		return 80
	case diff <= 5000:
		return 50
	case diff <= 10000:
		return 25
	case diff <= 30000:
		return 10
	default:
		return 0
	}
}

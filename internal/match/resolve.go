package match

import (
	"sort"

	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/report"
	"github.com/franz/mbtag/internal/scan"
	"github.com/franz/mbtag/internal/util"
)

// minAssignConfidence is the floor below which a greedy assignment is
// demoted back to unmatched rather than tagged
const minAssignConfidence = 0.15

// Pair is one resolved file/track assignment
type Pair struct {
	File       scan.AudioFile
	Track      musicbrainz.Track
	Score      int
	Confidence float64
}

// Assignment is the complete outcome of matching a set of files against
// an album's track list. Pairs is ordered by disc number, then position.
type Assignment struct {
	Pairs           []Pair
	UnmatchedFiles  []scan.AudioFile
	UnmatchedTracks []musicbrainz.Track
}

// Resolve matches files to album tracks. Every file/track pair is scored,
// then assignments are claimed greedily from the highest score down, each
// file and each track used at most once. Assignments that survive greedy
// selection but fall below the confidence floor are demoted to unmatched.
func Resolve(files []scan.AudioFile, album *musicbrainz.Album, events *report.EventLogger) Assignment {
	type candidate struct {
		fileIdx    int
		trackIdx   int
		score      int
		confidence float64
	}

	var candidates []candidate

	for fi, file := range files {
		for ti, track := range album.Tracks {
			score, confidence, rej := ScorePair(file, track, album.Artist)

			switch rej {
			case RejectNone:
				events.LogScore(file.Path, track.Title, track.Position, score, confidence)
				candidates = append(candidates, candidate{
					fileIdx:    fi,
					trackIdx:   ti,
					score:      score,
					confidence: confidence,
				})
			case RejectQualifierVeto:
				util.DebugLog("Qualifier veto: '%s' vs '%s'", file.Stem, track.Title)
				events.LogVeto(file.Path, track.Title, track.Position, "no qualifier cross-match")
			}
		}
	}

	// Stable sort keeps candidates with equal scores in file-then-track
	// generation order, which makes the greedy pass deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	usedFiles := make(map[int]bool)
	usedTracks := make(map[int]bool)

	var claimed []candidate
	for _, c := range candidates {
		if usedFiles[c.fileIdx] || usedTracks[c.trackIdx] {
			continue
		}
		usedFiles[c.fileIdx] = true
		usedTracks[c.trackIdx] = true
		claimed = append(claimed, c)
	}

	// Confidence post-filter: demoted pairs release their file and track
	// back into the unmatched sets
	matchedFiles := make(map[int]bool, len(claimed))
	matchedTracks := make(map[int]bool, len(claimed))

	var pairs []Pair
	for _, c := range claimed {
		file := files[c.fileIdx]
		track := album.Tracks[c.trackIdx]

		if c.confidence < minAssignConfidence {
			util.WarnLog("Dropping low-confidence match: '%s' -> '%s' (%.2f)",
				file.Stem, track.Title, c.confidence)
			events.LogLowConfidence(file.Path, track.Title, track.Position, c.confidence)
			continue
		}

		matchedFiles[c.fileIdx] = true
		matchedTracks[c.trackIdx] = true
		pairs = append(pairs, Pair{
			File:       file,
			Track:      track,
			Score:      c.score,
			Confidence: c.confidence,
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Track.DiscNumber != pairs[j].Track.DiscNumber {
			return pairs[i].Track.DiscNumber < pairs[j].Track.DiscNumber
		}
		return pairs[i].Track.Position < pairs[j].Track.Position
	})

	var unmatchedFiles []scan.AudioFile
	for fi, f := range files {
		if !matchedFiles[fi] {
			unmatchedFiles = append(unmatchedFiles, f)
			events.LogUnmatched(f.Path, "", 0)
		}
	}

	var unmatchedTracks []musicbrainz.Track
	for ti, t := range album.Tracks {
		if !matchedTracks[ti] {
			unmatchedTracks = append(unmatchedTracks, t)
			events.LogUnmatched("", t.Title, t.Position)
		}
	}

	for _, p := range pairs {
		events.LogAssign(p.File.Path, p.Track.Title, p.Track.Position, p.Track.DiscNumber, p.Score, p.Confidence)
	}

	return Assignment{
		Pairs:           pairs,
		UnmatchedFiles:  unmatchedFiles,
		UnmatchedTracks: unmatchedTracks,
	}
}

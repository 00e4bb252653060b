package tagger

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// ExistingTags holds the metadata already present in an audio file.
// Zero values mean the tag was absent.
type ExistingTags struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Year        int
	Track       int
	TrackTotal  int
	Disc        int
	DiscTotal   int
	HasCover    bool
}

// ReadExistingTags reads whatever metadata a file already carries.
// Works across formats (ID3, MP4 atoms, Vorbis comments), so it can seed
// defaults even for files this tool cannot write.
func ReadExistingTags(path string) (*ExistingTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	track, trackTotal := meta.Track()
	disc, discTotal := meta.Disc()

	return &ExistingTags{
		Title:       meta.Title(),
		Artist:      meta.Artist(),
		Album:       meta.Album(),
		AlbumArtist: meta.AlbumArtist(),
		Year:        meta.Year(),
		Track:       track,
		TrackTotal:  trackTotal,
		Disc:        disc,
		DiscTotal:   discTotal,
		HasCover:    meta.Picture() != nil,
	}, nil
}

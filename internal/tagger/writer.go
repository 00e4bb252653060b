package tagger

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/franz/mbtag/internal/match"
	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/report"
	"github.com/franz/mbtag/internal/util"
	"github.com/schollz/progressbar/v3"
)

// WriteOptions controls what gets written into each file
type WriteOptions struct {
	// CoverArt is the front cover image embedded into every file.
	// Nil leaves existing artwork untouched.
	CoverArt []byte

	// ClearExisting drops all existing frames before writing instead of
	// updating in place
	ClearExisting bool
}

// WriteTags writes ID3v2.4 tags for one resolved file/track assignment.
// Only MP3 files can be written; other formats still match and report but
// return util.ErrUnsupported here.
func WriteTags(pair match.Pair, album *musicbrainz.Album, opts WriteOptions) error {
	if !strings.EqualFold(filepath.Ext(pair.File.Path), ".mp3") {
		return fmt.Errorf("%s: %w", filepath.Ext(pair.File.Path), util.ErrUnsupported)
	}

	tag, err := id3v2.Open(pair.File.Path, id3v2.Options{Parse: !opts.ClearExisting})
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file vanished before tagging: %w", err)
		}
		return fmt.Errorf("failed to open tags: %w", err)
	}
	defer tag.Close()

	if opts.ClearExisting {
		tag.DeleteAllFrames()
	}

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	track := pair.Track

	tag.SetTitle(track.Title)
	tag.SetArtist(track.Artist)
	tag.SetAlbum(album.Title)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, album.Artist)

	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8,
		fmt.Sprintf("%d/%d", track.Position, tracksOnDisc(album, track.DiscNumber)))

	// Disc frames only make sense on multi-disc releases
	if album.DiscCount > 1 {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8,
			fmt.Sprintf("%d/%d", track.DiscNumber, album.DiscCount))
		if track.DiscTitle != "" {
			tag.AddTextFrame("TSST", id3v2.EncodingUTF8, track.DiscTitle)
		}
	}

	if album.Date != "" {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, album.Date)
		if year := releaseYear(album.Date); year != "" {
			tag.SetYear(year)
		}
	}

	addMusicBrainzIDs(tag, album, track)

	if opts.CoverArt != nil {
		setCoverArt(tag, opts.CoverArt)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}

	return nil
}

// addMusicBrainzIDs writes the identifier frames other tools use to
// recognize already-tagged files
func addMusicBrainzIDs(tag *id3v2.Tag, album *musicbrainz.Album, track musicbrainz.Track) {
	addUserText(tag, "MusicBrainz Album Id", album.ID)
	addUserText(tag, "MusicBrainz Release Track Id", track.ID)
	addUserText(tag, "MusicBrainz Recording Id", track.RecordingID)
	addUserText(tag, "MusicBrainz Album Artist Id", album.ArtistID)
}

func addUserText(tag *id3v2.Tag, description, value string) {
	if value == "" {
		return
	}
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: description,
		Value:       value,
	})
}

// setCoverArt replaces any attached pictures with a single front cover
func setCoverArt(tag *id3v2.Tag, image []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    sniffImageMime(image),
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     image,
	})
}

// sniffImageMime detects the image format from magic bytes, defaulting
// to JPEG
func sniffImageMime(data []byte) string {
	if bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		return "image/png"
	}
	return "image/jpeg"
}

// tracksOnDisc counts the album tracks sharing a disc number, for the
// denominator of the TRCK frame
func tracksOnDisc(album *musicbrainz.Album, disc int) int {
	count := 0
	for _, t := range album.Tracks {
		if t.DiscNumber == disc {
			count++
		}
	}
	if count == 0 {
		return album.TotalTracks
	}
	return count
}

// releaseYear extracts the year from a release date, which MusicBrainz
// gives as YYYY, YYYY-MM, or YYYY-MM-DD
func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return date[:4]
}

// BasicTags is the minimal tag set written in manual mode, where no
// catalog identifiers exist
type BasicTags struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	TrackNumber int
	TrackTotal  int
}

// WriteBasicTags writes user-entered metadata to a file as ID3v2.4
func WriteBasicTags(path string, tags BasicTags, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open tags: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(tags.Title)
	tag.SetArtist(tags.Artist)
	tag.SetAlbum(tags.Album)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, tags.AlbumArtist)
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8,
		fmt.Sprintf("%d/%d", tags.TrackNumber, tags.TrackTotal))

	if cover != nil {
		setCoverArt(tag, cover)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}

	return nil
}

// WriteAll writes tags for every assignment, showing a progress bar on
// interactive runs. Failures are logged and counted but do not stop the
// remaining writes.
func WriteAll(assignment match.Assignment, album *musicbrainz.Album, opts WriteOptions, events *report.EventLogger) (written, failed int) {
	// Disable progress bar if stdout is piped/redirected
	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(assignment.Pairs),
			progressbar.OptionSetDescription("Writing tags"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	for _, pair := range assignment.Pairs {
		start := time.Now()
		err := WriteTags(pair, album, opts)
		events.LogWrite(pair.File.Path, pair.Track.Title, pair.Track.Position,
			pair.Track.DiscNumber, time.Since(start), err)

		switch {
		case errors.Is(err, util.ErrUnsupported):
			util.WarnLog("Skipping %s: only MP3 files can be written", pair.File.Path)
		case err != nil:
			util.ErrorLog("Failed to tag %s: %v", pair.File.Path, err)
			failed++
		default:
			written++
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	return written, failed
}

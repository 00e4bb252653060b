// Package manual implements interactive tagging for albums that are not
// in the catalog: the user is prompted per track, with defaults seeded
// from existing tags and file names.
package manual

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/mbtag/internal/scan"
	"github.com/franz/mbtag/internal/tagger"
	"github.com/franz/mbtag/internal/util"
)

// TrackInfo is user-entered metadata for one file
type TrackInfo struct {
	Path        string
	Title       string
	Artist      string
	TrackNumber int
}

// Album is the full result of a manual tagging session
type Album struct {
	Title    string
	Artist   string
	Tracks   []TrackInfo
	CoverArt []byte
}

// Options controls a manual tagging session
type Options struct {
	DryRun bool
	Yes    bool
}

// Session drives the interactive prompts. Input and output are injected
// so tests can script a whole session.
type Session struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewSession creates a session reading from in and writing prompts to out
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run tags a directory of MP3 files interactively
func (s *Session) Run(dir string, opts Options) error {
	files, err := scan.Discover(dir)
	if err != nil {
		return err
	}

	var mp3s []scan.AudioFile
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f.Path), ".mp3") {
			mp3s = append(mp3s, f)
		}
	}
	if len(mp3s) == 0 {
		return fmt.Errorf("no MP3 files found in %s", dir)
	}

	util.InfoLog("Found %d MP3 file(s)", len(mp3s))

	album, err := s.collectAlbum(dir, mp3s)
	if err != nil {
		return err
	}

	s.printSummary(album)

	if opts.DryRun {
		util.InfoLog("Dry run, no files were modified")
		return nil
	}

	if !opts.Yes {
		ok, err := s.confirm("Apply these tags?")
		if err != nil {
			return err
		}
		if !ok {
			util.InfoLog("Aborted")
			return nil
		}
	}

	return s.writeAlbum(album)
}

// collectAlbum prompts for album info and then per-track metadata
func (s *Session) collectAlbum(dir string, files []scan.AudioFile) (*Album, error) {
	// Seed album defaults from the first file's existing tags
	defaultAlbum := filepath.Base(dir)
	defaultArtist := "Various Artists"
	if existing, err := tagger.ReadExistingTags(files[0].Path); err == nil {
		if existing.Album != "" {
			defaultAlbum = existing.Album
		}
		if existing.AlbumArtist != "" {
			defaultArtist = existing.AlbumArtist
		}
	}

	fmt.Fprintln(s.out, "Album information:")

	albumTitle, err := s.prompt("  Album title", defaultAlbum)
	if err != nil {
		return nil, err
	}
	albumArtist, err := s.prompt("  Album artist", defaultArtist)
	if err != nil {
		return nil, err
	}

	coverArt, err := s.promptCoverArt(dir)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Enter metadata for each track (press Enter to accept the suggestion):")
	fmt.Fprintln(s.out)

	var tracks []TrackInfo
	for i, file := range files {
		name := filepath.Base(file.Path)
		fmt.Fprintf(s.out, "[%d/%d] %s\n", i+1, len(files), name)

		// Existing tags beat filename parsing, which beats the album artist
		filenameArtist, filenameTitle := ParseFilename(name)

		defaultTrackArtist := filenameArtist
		defaultTitle := filenameTitle
		if existing, err := tagger.ReadExistingTags(file.Path); err == nil {
			if existing.Artist != "" {
				defaultTrackArtist = existing.Artist
			}
			if existing.Title != "" {
				defaultTitle = existing.Title
			}
		}
		if defaultTrackArtist == "" {
			defaultTrackArtist = albumArtist
		}

		artist, err := s.prompt("  Artist", defaultTrackArtist)
		if err != nil {
			return nil, err
		}
		title, err := s.prompt("  Title", defaultTitle)
		if err != nil {
			return nil, err
		}

		tracks = append(tracks, TrackInfo{
			Path:        file.Path,
			Title:       title,
			Artist:      artist,
			TrackNumber: i + 1,
		})

		fmt.Fprintln(s.out)
	}

	return &Album{
		Title:    albumTitle,
		Artist:   albumArtist,
		Tracks:   tracks,
		CoverArt: coverArt,
	}, nil
}

// promptCoverArt offers any image found in the directory as a default
// and loads whichever path the user settles on
func (s *Session) promptCoverArt(dir string) ([]byte, error) {
	defaultCover := FindCoverArt(dir)

	path, err := s.prompt("  Cover art (path to image, empty for none)", defaultCover)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		util.WarnLog("Could not read cover art %s: %v", path, err)
		return nil, nil
	}

	util.InfoLog("Loaded cover art (%s)", util.FormatSize(int64(len(data))))
	return data, nil
}

func (s *Session) printSummary(album *Album) {
	fmt.Fprintln(s.out, "Summary:")
	fmt.Fprintf(s.out, "  Album: %s by %s\n", album.Title, album.Artist)
	if album.CoverArt != nil {
		fmt.Fprintln(s.out, "  Cover art: yes")
	} else {
		fmt.Fprintln(s.out, "  Cover art: none")
	}
	for _, t := range album.Tracks {
		fmt.Fprintf(s.out, "  %2d. %s - %s\n", t.TrackNumber, t.Artist, t.Title)
	}
	fmt.Fprintln(s.out)
}

func (s *Session) writeAlbum(album *Album) error {
	util.InfoLog("Writing tags...")

	for _, t := range album.Tracks {
		err := tagger.WriteBasicTags(t.Path, tagger.BasicTags{
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       album.Title,
			AlbumArtist: album.Artist,
			TrackNumber: t.TrackNumber,
			TrackTotal:  len(album.Tracks),
		}, album.CoverArt)
		if err != nil {
			return fmt.Errorf("failed to tag %s: %w", t.Path, err)
		}
	}

	util.SuccessLog("Tagged %d file(s)", len(album.Tracks))
	return nil
}

// prompt shows a prompt with a default and reads one line of input.
// An empty answer keeps the default.
func (s *Session) prompt(label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// confirm asks a yes/no question defaulting to no
func (s *Session) confirm(label string) (bool, error) {
	answer, err := s.prompt(label+" (y/N)", "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/franz/mbtag/internal/match"
	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/scan"
	"github.com/franz/mbtag/internal/tagger"
	"github.com/franz/mbtag/internal/util"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag [path]",
	Short: "Match an album directory against a MusicBrainz release and write tags",
	Long: `Match the audio files in a directory against the tracks of a MusicBrainz
release and write ID3v2.4 tags to the matched files.

Each file is fuzzy-matched against every catalog track; parenthesized
qualifiers like (Live) or (Remix) must agree on both sides, and playback
durations break ties when ffprobe is available. The proposed assignment
is shown before anything is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runTag,
}

func init() {
	tagCmd.Flags().StringP("release", "r", "", "MusicBrainz release ID (required)")
	tagCmd.Flags().Bool("no-cover-art", false, "skip cover art download and embedding")
	tagCmd.Flags().Bool("no-probe", false, "skip ffprobe duration probing")
	tagCmd.Flags().Bool("clear", false, "drop existing frames instead of updating in place")
	tagCmd.Flags().Bool("dry-run", false, "show the match report without writing tags")
	tagCmd.Flags().BoolP("yes", "y", false, "write tags without asking for confirmation")
	tagCmd.MarkFlagRequired("release")

	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevel()

	path := args[0]
	releaseID, _ := cmd.Flags().GetString("release")
	noCoverArt, _ := cmd.Flags().GetBool("no-cover-art")
	noProbe, _ := cmd.Flags().GetBool("no-probe")
	clearExisting, _ := cmd.Flags().GetBool("clear")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	if _, err := uuid.Parse(releaseID); err != nil {
		return fmt.Errorf("invalid release ID %q: must be a MusicBrainz UUID", releaseID)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	events := newEventLogger()
	defer events.Close()
	if events.Path() != "" {
		util.DebugLog("Event log: %s", events.Path())
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		util.InfoLog("Album directory: %s", path)
		if err := scan.ListDirectory(path); err != nil {
			util.WarnLog("Cannot list directory: %v", err)
		}
		fmt.Println()
	}

	// Discovery
	files, err := scan.Discover(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no audio files found in %s", path)
	}
	for _, f := range files {
		events.LogScan(f.Path, f.SizeBytes)
	}
	util.InfoLog("Found %d audio file(s)", len(files))

	if !noProbe {
		scan.ProbeDurations(ctx, files)
	}

	// Catalog lookup
	client := musicbrainz.NewClient()
	defer client.Close()

	db := openCache()
	if db != nil {
		defer db.Close()
	}
	cache := musicbrainz.NewCache(db, client)

	util.InfoLog("Looking up release %s", releaseID)
	album, err := cache.GetRelease(ctx, releaseID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("release %s not found in MusicBrainz", releaseID)
		}
		return err
	}
	events.LogLookup(album.ID, album.Title, album.Artist, album.TotalTracks, db != nil)

	util.InfoLog("Release: %s - %s (%d tracks)", album.Artist, album.Title, album.TotalTracks)

	var coverArt []byte
	if !noCoverArt && !dryRun {
		coverArt, err = cache.GetCoverArt(ctx, releaseID)
		if err != nil {
			if errors.Is(err, util.ErrNoCoverArt) {
				util.WarnLog("No cover art available for this release")
			} else {
				util.WarnLog("Cover art fetch failed: %v", err)
			}
		} else {
			util.InfoLog("Cover art: %s", util.FormatSize(int64(len(coverArt))))
		}
	}

	// Matching
	start := time.Now()
	assignment := match.Resolve(files, album, events)
	util.DebugLog("Matching took %v", time.Since(start).Round(time.Millisecond))

	fmt.Println()
	fmt.Print(match.RenderReport(assignment, album))
	fmt.Println()

	if len(assignment.Pairs) == 0 {
		return fmt.Errorf("no files could be matched to this release")
	}

	if dryRun {
		util.InfoLog("Dry run, no files were modified")
		return nil
	}

	if !yes && !confirmWrite() {
		util.InfoLog("Aborted")
		return nil
	}

	// Write
	written, failed := tagger.WriteAll(assignment, album, tagger.WriteOptions{
		CoverArt:      coverArt,
		ClearExisting: clearExisting,
	}, events)

	if failed > 0 {
		return fmt.Errorf("tagged %d file(s), %d failed", written, failed)
	}

	util.SuccessLog("Tagged %d file(s)", written)
	return nil
}

// confirmWrite asks on stdin before modifying files, defaulting to no
func confirmWrite() bool {
	fmt.Print("Apply these tags? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

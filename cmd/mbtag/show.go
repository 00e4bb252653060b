package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/franz/mbtag/internal/match"
	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/util"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [release-id]",
	Short: "Show the track listing of a MusicBrainz release",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevel()

	releaseID := args[0]
	if _, err := uuid.Parse(releaseID); err != nil {
		return fmt.Errorf("invalid release ID %q: must be a MusicBrainz UUID", releaseID)
	}

	client := musicbrainz.NewClient()
	defer client.Close()

	db := openCache()
	if db != nil {
		defer db.Close()
	}
	cache := musicbrainz.NewCache(db, client)

	album, err := cache.GetRelease(ctx, releaseID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("release %s not found in MusicBrainz", releaseID)
		}
		return err
	}

	fmt.Print(match.RenderTrackListing(album))

	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/util"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [album title]",
	Short: "Search MusicBrainz for a release",
	Long: `Search the MusicBrainz catalog for releases matching an album title,
optionally narrowed by artist. Results are ordered by how closely their
titles match the query, so the release ID to pass to 'mbtag tag' is
usually in the first row.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("artist", "a", "", "narrow the search by artist name")
	searchCmd.Flags().IntP("limit", "n", 10, "maximum number of results")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevel()

	albumQuery := args[0]
	artistQuery, _ := cmd.Flags().GetString("artist")
	limit, _ := cmd.Flags().GetInt("limit")

	client := musicbrainz.NewClient()
	defer client.Close()

	util.InfoLog("Searching MusicBrainz for '%s'", albumQuery)

	results, err := client.SearchReleases(ctx, albumQuery, artistQuery, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		util.WarnLog("No releases found")
		return nil
	}

	ranked := musicbrainz.RankSearchResults(results, albumQuery, artistQuery)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Release ID", "Title", "Artist", "Date", "Tracks"})
	for _, r := range ranked {
		tw.AppendRow(table.Row{r.ID, r.Title, r.Artist, r.Date, r.TrackCount})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})

	fmt.Println(tw.Render())
	fmt.Println()
	fmt.Println("Tag an album with: mbtag tag <path> --release <Release ID>")

	return nil
}

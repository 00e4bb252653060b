package match

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/franz/mbtag/internal/musicbrainz"
	"github.com/franz/mbtag/internal/util"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderReport formats a match assignment as a table of proposed tag
// writes followed by any unmatched files and tracks. Multi-disc releases
// get a Disc column; single-disc ones omit it.
func RenderReport(assignment Assignment, album *musicbrainz.Album) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s - %s", album.Artist, album.Title)
	if album.Date != "" {
		fmt.Fprintf(&sb, " (%s)", album.Date)
	}
	sb.WriteString("\n\n")

	multiDisc := album.DiscCount > 1

	if len(assignment.Pairs) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.SetAllowedRowLength(util.GetTerminalWidth())

		header := table.Row{"#", "File", "Track", "Length", "Score", "Conf"}
		if multiDisc {
			header = append(table.Row{"Disc"}, header...)
		}
		tw.AppendHeader(header)

		for _, p := range assignment.Pairs {
			length := ""
			if p.Track.LengthMs > 0 {
				length = util.FormatDuration(p.Track.LengthMs)
			}

			row := table.Row{
				p.Track.Position,
				filepath.Base(p.File.Path),
				p.Track.Title,
				length,
				p.Score,
				fmt.Sprintf("%.2f", p.Confidence),
			}
			if multiDisc {
				row = append(table.Row{p.Track.DiscNumber}, row...)
			}
			tw.AppendRow(row)
		}

		// Right-align the numeric columns
		offset := 0
		configs := []table.ColumnConfig{}
		if multiDisc {
			offset = 1
			configs = append(configs, table.ColumnConfig{Number: 1, Align: text.AlignRight})
		}
		for _, n := range []int{1, 4, 5, 6} {
			configs = append(configs, table.ColumnConfig{Number: offset + n, Align: text.AlignRight})
		}
		tw.SetColumnConfigs(configs)

		sb.WriteString(tw.Render())
		sb.WriteString("\n")
	}

	if len(assignment.UnmatchedFiles) > 0 {
		sb.WriteString("\nUnmatched files:\n")
		for _, f := range assignment.UnmatchedFiles {
			length := ""
			if f.DurationMs > 0 {
				length = " (" + util.FormatDuration(f.DurationMs) + ")"
			}
			fmt.Fprintf(&sb, "  ? %s%s\n", filepath.Base(f.Path), length)
		}
	}

	if len(assignment.UnmatchedTracks) > 0 {
		sb.WriteString("\nUnmatched tracks:\n")
		for _, t := range assignment.UnmatchedTracks {
			length := ""
			if t.LengthMs > 0 {
				length = " (" + util.FormatDuration(t.LengthMs) + ")"
			}
			if multiDisc {
				fmt.Fprintf(&sb, "  ? %d-%02d %s%s\n", t.DiscNumber, t.Position, t.Title, length)
			} else {
				fmt.Fprintf(&sb, "  ? %02d %s%s\n", t.Position, t.Title, length)
			}
		}
	}

	fmt.Fprintf(&sb, "\nMatched %d of %d files to %d catalog tracks\n",
		len(assignment.Pairs), len(assignment.Pairs)+len(assignment.UnmatchedFiles), album.TotalTracks)

	return sb.String()
}

// RenderTrackListing formats an album's full track list, grouped by disc
// for multi-disc releases
func RenderTrackListing(album *musicbrainz.Album) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s - %s", album.Artist, album.Title)
	if album.Date != "" {
		fmt.Fprintf(&sb, " (%s)", album.Date)
	}
	fmt.Fprintf(&sb, "\n%d track(s) on %d disc(s)\n\n", album.TotalTracks, album.DiscCount)

	lastDisc := 0
	for _, t := range album.Tracks {
		if album.DiscCount > 1 && t.DiscNumber != lastDisc {
			if lastDisc != 0 {
				sb.WriteString("\n")
			}
			if t.DiscTitle != "" {
				fmt.Fprintf(&sb, "Disc %d: %s\n", t.DiscNumber, t.DiscTitle)
			} else {
				fmt.Fprintf(&sb, "Disc %d\n", t.DiscNumber)
			}
			lastDisc = t.DiscNumber
		}

		length := ""
		if t.LengthMs > 0 {
			length = "  " + util.FormatDuration(t.LengthMs)
		}
		fmt.Fprintf(&sb, "  %02d  %s%s\n", t.Position, t.Title, length)
	}

	return sb.String()
}

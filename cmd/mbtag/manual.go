package main

import (
	"fmt"
	"os"

	"github.com/franz/mbtag/internal/manual"
	"github.com/spf13/cobra"
)

var manualCmd = &cobra.Command{
	Use:   "manual [path]",
	Short: "Tag an album interactively without a catalog release",
	Long: `Tag a directory of MP3 files by hand, for albums that are not in
MusicBrainz (bootlegs, self-released albums, old rips).

Defaults for every prompt come from the files' existing tags, then from
parsing file names like "03 - Artist - Title.mp3", so a well-named
directory only needs a series of Enter presses.`,
	Args: cobra.ExactArgs(1),
	RunE: runManual,
}

func init() {
	manualCmd.Flags().Bool("dry-run", false, "show the collected tags without writing them")
	manualCmd.Flags().BoolP("yes", "y", false, "write tags without asking for confirmation")

	rootCmd.AddCommand(manualCmd)
}

func runManual(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	path := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("manual mode needs a directory, got a file: %s", path)
	}

	session := manual.NewSession(os.Stdin, os.Stdout)
	return session.Run(path, manual.Options{
		DryRun: dryRun,
		Yes:    yes,
	})
}

package main

import (
	"fmt"
	"time"

	"github.com/franz/mbtag/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the release cache",
	Long: `The release cache keeps MusicBrainz lookups and downloaded cover art
between runs, so re-tagging the same album never re-hits the API.`,
	RunE: runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached releases and cover art",
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().Duration("older-than", 0, "only remove entries older than this (e.g. 720h)")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	db := openCache()
	if db == nil {
		return fmt.Errorf("no cache configured (see --cache)")
	}
	defer db.Close()

	releases, covers, err := db.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Cache: %s\n", viper.GetString("cache"))
	fmt.Printf("  Releases:     %d\n", releases)
	fmt.Printf("  Cover images: %d\n", covers)

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	olderThan, _ := cmd.Flags().GetDuration("older-than")

	db := openCache()
	if db == nil {
		return fmt.Errorf("no cache configured (see --cache)")
	}
	defer db.Close()

	if olderThan > 0 {
		removed, err := db.ClearOldEntries(olderThan)
		if err != nil {
			return err
		}
		util.SuccessLog("Removed %d entries older than %v", removed, olderThan.Round(time.Hour))
		return nil
	}

	if err := db.Clear(); err != nil {
		return err
	}
	util.SuccessLog("Cache cleared")

	return nil
}

package main

import (
	"os"
	"path/filepath"

	"github.com/franz/mbtag/internal/report"
	"github.com/franz/mbtag/internal/store"
	"github.com/franz/mbtag/internal/util"
	"github.com/spf13/viper"
)

// applyLogLevel configures the logger from the global flags
func applyLogLevel() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
	if viper.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
		util.SetColors(false)
	}
}

// openCache opens the release cache database named by the --cache flag.
// Returns nil (caching disabled) when the flag is empty or the database
// cannot be opened; a broken cache never blocks tagging.
func openCache() *store.Store {
	if viper.GetBool("no-cache") {
		return nil
	}

	path := viper.GetString("cache")
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		util.WarnLog("Cannot create cache directory: %v", err)
		return nil
	}

	db, err := store.Open(path)
	if err != nil {
		util.WarnLog("Cannot open release cache: %v", err)
		return nil
	}

	return db
}

// newEventLogger creates the JSONL event logger for a run, honoring the
// verbosity flags. Falls back to a no-op logger on failure.
func newEventLogger() *report.EventLogger {
	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	dir := viper.GetString("events-dir")
	if dir == "" {
		dir = "artifacts"
	}

	logger, err := report.NewEventLogger(dir, logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		return report.NullLogger()
	}

	return logger
}

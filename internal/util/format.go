package util

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders a duration in milliseconds as m:ss
func FormatDuration(ms int64) string {
	totalSeconds := ms / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatSize renders a byte count in human-readable form (e.g. "8.2 MB")
func FormatSize(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

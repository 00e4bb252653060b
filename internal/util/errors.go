package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrNoCoverArt indicates the Cover Art Archive has no image for a release
	ErrNoCoverArt = errors.New("no cover art for release")

	// ErrRateLimited indicates the MusicBrainz API rejected a request for rate reasons
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsupported indicates a file format cannot be written
	ErrUnsupported = errors.New("unsupported format")
)

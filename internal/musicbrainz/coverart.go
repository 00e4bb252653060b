package musicbrainz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for cover art
	"io"
	"net/http"
	"net/url"

	"github.com/franz/mbtag/internal/util"
	"github.com/nfnt/resize"
)

const (
	// CoverArtBaseURL is the Cover Art Archive base URL
	CoverArtBaseURL = "https://coverartarchive.org"

	// maxCoverDimension is the largest edge written into tags
	maxCoverDimension = 1200

	// maxCoverBytes is the size above which cover art is re-encoded
	maxCoverBytes = 1024 * 1024
)

type coverArtResponse struct {
	Images []coverArtImage `json:"images"`
}

type coverArtImage struct {
	Front      bool                `json:"front"`
	Image      string              `json:"image"`
	Thumbnails *coverArtThumbnails `json:"thumbnails"`
}

type coverArtThumbnails struct {
	Small string `json:"500"`
	Large string `json:"1200"`
}

// GetCoverArt fetches the front cover for a release from the Cover Art
// Archive, preferring the 1200px thumbnail, then the 500px one, then the
// original upload. Returns util.ErrNoCoverArt when the archive has nothing.
func (c *Client) GetCoverArt(ctx context.Context, releaseID string) ([]byte, error) {
	urlStr := fmt.Sprintf("%s/release/%s", c.coverArtBaseURL(), url.PathEscape(releaseID))

	util.DebugLog("Cover Art Archive: looking up release %s", releaseID)

	body, err := c.getCoverArtURL(ctx, urlStr, true)
	if err != nil {
		return nil, err
	}

	var listing coverArtResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode cover art response: %w", err)
	}

	if len(listing.Images) == 0 {
		return nil, util.ErrNoCoverArt
	}

	chosen := listing.Images[0]
	for _, img := range listing.Images {
		if img.Front {
			chosen = img
			break
		}
	}

	imageURL := chosen.Image
	if chosen.Thumbnails != nil {
		if chosen.Thumbnails.Large != "" {
			imageURL = chosen.Thumbnails.Large
		} else if chosen.Thumbnails.Small != "" {
			imageURL = chosen.Thumbnails.Small
		}
	}

	data, err := c.getCoverArtURL(ctx, imageURL, false)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover image: %w", err)
	}

	return resizeIfNeeded(data)
}

// getCoverArtURL performs a plain GET against the Cover Art Archive.
// When isListing, a 404 means the release has no cover art at all.
func (c *Client) getCoverArtURL(ctx context.Context, urlStr string, isListing bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && isListing {
		return nil, util.ErrNoCoverArt
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover art archive returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover art body: %w", err)
	}

	return body, nil
}

// resizeIfNeeded downscales oversized cover art so tags stay a reasonable
// size. Images under the byte cap with both edges within bounds pass
// through untouched; anything else is re-encoded as JPEG.
func resizeIfNeeded(data []byte) ([]byte, error) {
	if len(data) <= maxCoverBytes {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			// Not decodable; pass the original bytes through
			return data, nil
		}
		bounds := img.Bounds()
		if bounds.Dx() <= maxCoverDimension && bounds.Dy() <= maxCoverDimension {
			return data, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image for resizing: %w", err)
	}

	resized := resize.Thumbnail(maxCoverDimension, maxCoverDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode resized cover: %w", err)
	}

	util.DebugLog("Cover art resized: %d -> %d bytes", len(data), buf.Len())

	return buf.Bytes(), nil
}

func (c *Client) coverArtBaseURL() string {
	if c.coverArtURL != "" {
		return c.coverArtURL
	}
	return CoverArtBaseURL
}

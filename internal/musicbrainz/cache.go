package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/franz/mbtag/internal/store"
	"github.com/franz/mbtag/internal/util"
)

// Cache wraps a Client with database-backed caching of release lookups
// and cover art. A nil store disables caching entirely.
type Cache struct {
	store  *store.Store
	client *Client
}

// NewCache creates a new cache instance
func NewCache(st *store.Store, client *Client) *Cache {
	return &Cache{
		store:  st,
		client: client,
	}
}

// GetRelease retrieves a release, checking the cache before the API
func (c *Cache) GetRelease(ctx context.Context, releaseID string) (*Album, error) {
	if c.store != nil {
		payload, ok, err := c.store.GetReleasePayload(releaseID)
		if err != nil {
			util.WarnLog("Release cache lookup failed: %v", err)
		} else if ok {
			var album Album
			if err := json.Unmarshal(payload, &album); err == nil {
				util.DebugLog("Release cache hit: %s", releaseID)
				return &album, nil
			}
			util.WarnLog("Discarding corrupt cache entry for %s", releaseID)
		}
	}

	album, err := c.client.GetRelease(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		payload, err := json.Marshal(album)
		if err == nil {
			if err := c.store.PutReleasePayload(releaseID, payload); err != nil {
				// Caching failures never fail the lookup
				util.WarnLog("Failed to cache release %s: %v", releaseID, err)
			}
		}
	}

	return album, nil
}

// GetCoverArt retrieves cover art, checking the cache before the archive.
// util.ErrNoCoverArt passes through uncached.
func (c *Cache) GetCoverArt(ctx context.Context, releaseID string) ([]byte, error) {
	if c.store != nil {
		image, ok, err := c.store.GetCoverArt(releaseID)
		if err != nil {
			util.WarnLog("Cover art cache lookup failed: %v", err)
		} else if ok {
			util.DebugLog("Cover art cache hit: %s (%d bytes)", releaseID, len(image))
			return image, nil
		}
	}

	image, err := c.client.GetCoverArt(ctx, releaseID)
	if err != nil {
		if errors.Is(err, util.ErrNoCoverArt) {
			return nil, err
		}
		return nil, fmt.Errorf("cover art fetch failed: %w", err)
	}

	if c.store != nil {
		if err := c.store.PutCoverArt(releaseID, image); err != nil {
			util.WarnLog("Failed to cache cover art for %s: %v", releaseID, err)
		}
	}

	return image, nil
}

package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/franz/mbtag/internal/util"
)

const (
	// BaseURL is the MusicBrainz API base URL
	BaseURL = "https://musicbrainz.org/ws/2"

	// UserAgent identifies this application to MusicBrainz
	// MusicBrainz requires a proper user agent
	UserAgent = "mbtag/0.2.0 (https://github.com/franz/mbtag)"

	// RateLimit is the maximum request rate (MusicBrainz requirement)
	RateLimit = 1100 * time.Millisecond
)

// Client handles MusicBrainz API requests with rate limiting
type Client struct {
	httpClient  *http.Client
	baseURL     string
	coverArtURL string
	userAgent   string
	rateLimiter *time.Ticker
}

// NewClient creates a new MusicBrainz API client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:     BaseURL,
		userAgent:   UserAgent,
		rateLimiter: time.NewTicker(RateLimit),
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint (tests)
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	c.coverArtURL = c.baseURL
	return c
}

// Close releases resources used by the client
func (c *Client) Close() {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}
}

// Album is a release with its track list flattened across discs.
// Tracks are ordered by ascending disc number, then ascending position.
type Album struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	ArtistID    string  `json:"artist_id,omitempty"`
	Date        string  `json:"date,omitempty"`
	Tracks      []Track `json:"tracks"`
	TotalTracks int     `json:"total_tracks"`
	DiscCount   int     `json:"disc_count"`
}

// Track is a single catalog track. DiscNumber defaults to 1 for single-disc
// releases; LengthMs is 0 when the catalog has no duration.
type Track struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	LengthMs    int64  `json:"length_ms,omitempty"`
	RecordingID string `json:"recording_id"`
	DiscNumber  int    `json:"disc_number"`
	DiscTitle   string `json:"disc_title,omitempty"`
}

// Wire types for the release lookup response

type mbRelease struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Media        []mbMedium     `json:"media"`
}

type artistCredit struct {
	Artist mbArtist `json:"artist"`
}

type mbArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type mbMedium struct {
	Position int       `json:"position"`
	Title    string    `json:"title"`
	Tracks   []mbTrack `json:"tracks"`
}

type mbTrack struct {
	ID           string         `json:"id"`
	Position     int            `json:"position"`
	Title        string         `json:"title"`
	Length       int64          `json:"length"`
	Recording    mbRecording    `json:"recording"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}

type mbRecording struct {
	ID string `json:"id"`
}

// GetRelease fetches a release by MBID, including artist credits and
// recordings, and flattens its media into a single ordered track list.
// Retries with exponential backoff on 503/429 and transport failures.
func (c *Client) GetRelease(ctx context.Context, releaseID string) (*Album, error) {
	if releaseID == "" {
		return nil, fmt.Errorf("release ID cannot be empty")
	}

	urlStr := fmt.Sprintf("%s/release/%s?inc=artist-credits+recordings&fmt=json",
		c.baseURL, url.PathEscape(releaseID))

	util.DebugLog("MusicBrainz API: looking up release %s", releaseID)

	body, err := util.RetryWithBackoff(nil, func() ([]byte, error) {
		return c.get(ctx, urlStr)
	}, fmt.Sprintf("release lookup (%s)", releaseID))
	if err != nil {
		return nil, fmt.Errorf("release lookup failed: %w", err)
	}

	var release mbRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("failed to decode release response: %w", err)
	}

	album := flattenRelease(&release)
	util.DebugLog("MusicBrainz: release '%s' by '%s', %d tracks on %d disc(s)",
		album.Title, album.Artist, album.TotalTracks, album.DiscCount)

	return album, nil
}

// ReleaseSearchResult is one candidate from a release search
type ReleaseSearchResult struct {
	ID         string
	Title      string
	Artist     string
	Date       string
	TrackCount int
	Score      int // MusicBrainz server-side score, 0-100
}

type mbReleaseSearchResponse struct {
	Releases []mbReleaseSearchEntry `json:"releases"`
}

type mbReleaseSearchEntry struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	Score        int            `json:"score"`
	TrackCount   int            `json:"track-count"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}

// SearchReleases queries the release search endpoint by album title and
// optional artist name
func (c *Client) SearchReleases(ctx context.Context, album, artist string, limit int) ([]ReleaseSearchResult, error) {
	if album == "" {
		return nil, fmt.Errorf("album title cannot be empty")
	}
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf("release:%q", album)
	if artist != "" {
		query += fmt.Sprintf(" AND artist:%q", artist)
	}

	urlStr := fmt.Sprintf("%s/release/?query=%s&fmt=json&limit=%d",
		c.baseURL, url.QueryEscape(query), limit)

	util.DebugLog("MusicBrainz API: searching releases: %s", query)

	body, err := util.RetryWithBackoff(nil, func() ([]byte, error) {
		return c.get(ctx, urlStr)
	}, "release search")
	if err != nil {
		return nil, fmt.Errorf("release search failed: %w", err)
	}

	var resp mbReleaseSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]ReleaseSearchResult, 0, len(resp.Releases))
	for _, r := range resp.Releases {
		artistName := ""
		if len(r.ArtistCredit) > 0 {
			artistName = r.ArtistCredit[0].Artist.Name
		}
		results = append(results, ReleaseSearchResult{
			ID:         r.ID,
			Title:      r.Title,
			Artist:     artistName,
			Date:       r.Date,
			TrackCount: r.TrackCount,
			Score:      r.Score,
		})
	}

	return results, nil
}

// RankSearchResults orders search candidates by edit distance of their
// titles (and artists, when given) to the query strings. Stable, so equal
// distances keep the server's order.
func RankSearchResults(results []ReleaseSearchResult, album, artist string) []ReleaseSearchResult {
	ranked := make([]ReleaseSearchResult, len(results))
	copy(ranked, results)

	albumLower := strings.ToLower(album)
	artistLower := strings.ToLower(artist)

	distance := func(r ReleaseSearchResult) int {
		d := levenshtein.ComputeDistance(albumLower, strings.ToLower(r.Title))
		if artistLower != "" {
			d += levenshtein.ComputeDistance(artistLower, strings.ToLower(r.Artist))
		}
		return d
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return distance(ranked[i]) < distance(ranked[j])
	})

	return ranked
}

// get performs a rate-limited GET and returns the response body.
// 503 and 429 map to util.ErrRateLimited so callers can retry.
func (c *Client) get(ctx context.Context, urlStr string) ([]byte, error) {
	c.waitForRateLimit()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("MusicBrainz returned %d: %w", resp.StatusCode, util.ErrRateLimited)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("release: %w", util.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// flattenRelease converts the nested media/track response into an Album
// with self-contained track records
func flattenRelease(release *mbRelease) *Album {
	albumArtist := "Unknown Artist"
	albumArtistID := ""
	if len(release.ArtistCredit) > 0 {
		albumArtist = release.ArtistCredit[0].Artist.Name
		albumArtistID = release.ArtistCredit[0].Artist.ID
	}

	var tracks []Track
	for idx, medium := range release.Media {
		discNumber := medium.Position
		if discNumber <= 0 {
			discNumber = idx + 1
		}

		for _, t := range medium.Tracks {
			trackArtist := albumArtist
			if len(t.ArtistCredit) > 0 {
				trackArtist = t.ArtistCredit[0].Artist.Name
			}

			tracks = append(tracks, Track{
				ID:          t.ID,
				Position:    t.Position,
				Title:       t.Title,
				Artist:      trackArtist,
				LengthMs:    t.Length,
				RecordingID: t.Recording.ID,
				DiscNumber:  discNumber,
				DiscTitle:   medium.Title,
			})
		}
	}

	return &Album{
		ID:          release.ID,
		Title:       release.Title,
		Artist:      albumArtist,
		ArtistID:    albumArtistID,
		Date:        release.Date,
		Tracks:      tracks,
		TotalTracks: len(tracks),
		DiscCount:   len(release.Media),
	}
}

// waitForRateLimit ensures we don't exceed the MusicBrainz rate limit
func (c *Client) waitForRateLimit() {
	<-c.rateLimiter.C
}

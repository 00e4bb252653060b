package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store caches MusicBrainz catalog responses between runs so repeated
// tagging of the same release does not re-hit the API. It never stores
// match results, only catalog data.
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite cache database at the given path
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS releases (
		mbid TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cover_art (
		mbid TEXT PRIMARY KEY,
		image BLOB NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}

	return nil
}

// GetReleasePayload returns the cached release JSON for an MBID, or
// (nil, false) on a cache miss
func (s *Store) GetReleasePayload(mbid string) ([]byte, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM releases WHERE mbid = ?`, mbid).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query release cache: %w", err)
	}
	return []byte(payload), true, nil
}

// PutReleasePayload stores release JSON for an MBID
func (s *Store) PutReleasePayload(mbid string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO releases (mbid, payload, cached_at) VALUES (?, ?, ?)`,
		mbid, string(payload), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert release cache entry: %w", err)
	}
	return nil
}

// GetCoverArt returns cached cover art bytes for an MBID, or (nil, false)
// on a cache miss
func (s *Store) GetCoverArt(mbid string) ([]byte, bool, error) {
	var image []byte
	err := s.db.QueryRow(`SELECT image FROM cover_art WHERE mbid = ?`, mbid).Scan(&image)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cover art cache: %w", err)
	}
	return image, true, nil
}

// PutCoverArt stores cover art bytes for an MBID
func (s *Store) PutCoverArt(mbid string, image []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cover_art (mbid, image, fetched_at) VALUES (?, ?, ?)`,
		mbid, image, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cover art cache entry: %w", err)
	}
	return nil
}

// Stats returns the number of cached releases and cover images
func (s *Store) Stats() (releases int, covers int, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM releases`).Scan(&releases); err != nil {
		return 0, 0, fmt.Errorf("failed to count releases: %w", err)
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM cover_art`).Scan(&covers); err != nil {
		return 0, 0, fmt.Errorf("failed to count cover art: %w", err)
	}
	return releases, covers, nil
}

// Clear removes all cached entries
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM releases`); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM cover_art`)
	return err
}

// ClearOldEntries removes cache entries older than the specified duration
func (s *Store) ClearOldEntries(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	res, err := s.db.Exec(`DELETE FROM releases WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	releases, _ := res.RowsAffected()

	res, err = s.db.Exec(`DELETE FROM cover_art WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return int(releases), err
	}
	covers, _ := res.RowsAffected()

	return int(releases + covers), nil
}

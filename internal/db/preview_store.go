package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tOgg1/uplink/internal/models"
)

// PreviewStore persists link previews keyed by normalized URL.
type PreviewStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewPreviewStore creates a PreviewStore. Entries older than ttl are
// treated as missing; a zero ttl keeps entries forever.
func NewPreviewStore(db *DB, ttl time.Duration) *PreviewStore {
	return &PreviewStore{
		db:  db,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the stored preview for url.
func (s *PreviewStore) Get(ctx context.Context, url string) (models.SiteMeta, bool, error) {
	var (
		meta      models.SiteMeta
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT title, description, favicon, final_url, fetched_at
		FROM link_previews
		WHERE url = ?
	`, url).Scan(&meta.Title, &meta.Description, &meta.Favicon, &meta.URL, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SiteMeta{}, false, nil
	}
	if err != nil {
		return models.SiteMeta{}, false, fmt.Errorf("failed to query preview: %w", err)
	}

	if s.ttl > 0 {
		at, err := time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil || s.now().Sub(at) > s.ttl {
			return models.SiteMeta{}, false, nil
		}
	}
	return meta, true, nil
}

// Put stores or replaces the preview for url.
func (s *PreviewStore) Put(ctx context.Context, url string, meta models.SiteMeta) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_previews (url, title, description, favicon, final_url, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			favicon = excluded.favicon,
			final_url = excluded.final_url,
			fetched_at = excluded.fetched_at
	`, url, meta.Title, meta.Description, meta.Favicon, meta.URL, s.now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to store preview: %w", err)
	}
	return nil
}

// Prune deletes previews fetched before the ttl window. It returns the
// number of rows removed.
func (s *PreviewStore) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, `DELETE FROM link_previews WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune previews: %w", err)
	}
	return res.RowsAffected()
}

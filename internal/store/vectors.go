package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jacklau/authorship/internal/vectorize"
)

// CacheStats summarizes the cache contents.
type CacheStats struct {
	Entries  int
	Catalogs int
	Bytes    int64
}

// GetVector returns the cached vector for a document hash under a catalog.
func (d *DB) GetVector(contentHash, catalog string) (vectorize.Vector, bool, error) {
	var dims int
	var blob []byte
	err := d.db.QueryRow(
		`SELECT dims, counts FROM vectors WHERE content_hash = ? AND catalog = ?`,
		contentHash, catalog,
	).Scan(&dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying vector: %w", err)
	}

	vec, err := DecodeCounts(blob)
	if err != nil {
		return nil, false, fmt.Errorf("decoding vector: %w", err)
	}
	if len(vec) != dims {
		return nil, false, fmt.Errorf("corrupt vector: %d dimensions stored, %d decoded", dims, len(vec))
	}

	if _, err := d.db.Exec(
		`UPDATE vectors SET last_used_at = datetime('now') WHERE content_hash = ? AND catalog = ?`,
		contentHash, catalog,
	); err != nil {
		return nil, false, fmt.Errorf("touching vector: %w", err)
	}

	return vec, true, nil
}

// PutVector stores vec for a document hash under a catalog.
func (d *DB) PutVector(contentHash, catalog, label string, vec vectorize.Vector) error {
	blob, err := EncodeCounts(vec)
	if err != nil {
		return fmt.Errorf("encoding vector: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO vectors (content_hash, catalog, dims, counts, label)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(content_hash, catalog) DO UPDATE SET
			dims = excluded.dims,
			counts = excluded.counts,
			label = excluded.label,
			last_used_at = datetime('now')`,
		contentHash, catalog, len(vec), blob, label,
	)
	if err != nil {
		return fmt.Errorf("upserting vector: %w", err)
	}
	return nil
}

// Stats returns aggregate counts over the cache.
func (d *DB) Stats() (*CacheStats, error) {
	var s CacheStats
	err := d.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT catalog), COALESCE(SUM(LENGTH(counts)), 0) FROM vectors`,
	).Scan(&s.Entries, &s.Catalogs, &s.Bytes)
	if err != nil {
		return nil, fmt.Errorf("querying cache stats: %w", err)
	}
	return &s, nil
}

// Clear removes every cached vector and returns how many were removed.
func (d *DB) Clear() (int64, error) {
	res, err := d.db.Exec(`DELETE FROM vectors`)
	if err != nil {
		return 0, fmt.Errorf("clearing vectors: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared vectors: %w", err)
	}
	return n, nil
}

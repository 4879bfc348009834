// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package sqlite provides a cache.Store persisted in a SQLite database file.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/wneessen/geocached/internal/cache"
)

const schema = `
CREATE TABLE IF NOT EXISTS location_address_cache (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	latitude   REAL    NOT NULL,
	longitude  REAL    NOT NULL,
	locale     TEXT    NOT NULL,
	address    BLOB    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_location_address_cache_lookup
	ON location_address_cache (locale, latitude, longitude);
CREATE INDEX IF NOT EXISTS idx_location_address_cache_created_at
	ON location_address_cache (created_at);`

type Store struct {
	db *sqlx.DB
}

// dbRow is the table representation of a cache.Row. created_at is stored as Unix
// milliseconds.
type dbRow struct {
	ID        int64   `db:"id"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	Locale    string  `db:"locale"`
	Address   []byte  `db:"address"`
	CreatedAt int64   `db:"created_at"`
}

var _ cache.Store = (*Store)(nil)

// New opens (and if necessary creates) the database at path and applies the schema.
func New(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Insert(ctx context.Context, row cache.Row) (int64, error) {
	query := `
	INSERT INTO location_address_cache (latitude, longitude, locale, address, created_at)
	VALUES (?, ?, ?, ?, ?);`
	res, err := s.db.ExecContext(ctx, query, row.Lat, row.Lon, row.Locale, row.Address, row.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert cache row: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read cache row id: %w", err)
	}
	return id, nil
}

func (s *Store) QueryWindow(ctx context.Context, window cache.Window, locale string) ([]cache.Row, error) {
	query := `
	SELECT id, latitude, longitude, locale, address, created_at
	FROM location_address_cache
	WHERE locale = ?
	  AND latitude BETWEEN ? AND ?
	  AND longitude BETWEEN ? AND ?
	ORDER BY id;`
	var rows []dbRow
	err := s.db.SelectContext(ctx, &rows, query, locale, window.MinLat, window.MaxLat, window.MinLon, window.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("select cache rows: %w", err)
	}
	return toRows(rows), nil
}

func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM location_address_cache WHERE created_at < ?;`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete cache rows: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted cache row count: %w", err)
	}
	return deleted, nil
}

func (s *Store) List(ctx context.Context) ([]cache.Row, error) {
	var rows []dbRow
	query := `SELECT id, latitude, longitude, locale, address, created_at FROM location_address_cache ORDER BY id;`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select cache rows: %w", err)
	}
	return toRows(rows), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func toRows(rows []dbRow) []cache.Row {
	out := make([]cache.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, cache.Row{
			ID:        row.ID,
			Lat:       row.Latitude,
			Lon:       row.Longitude,
			Locale:    row.Locale,
			Address:   row.Address,
			CreatedAt: time.UnixMilli(row.CreatedAt),
		})
	}
	return out
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Row is a persisted cache entry. Address holds the serialized geocode.Address.
type Row struct {
	ID        int64           `json:"id"`
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	Locale    string          `json:"locale"`
	Address   json.RawMessage `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
}

// Window is an inclusive coordinate rectangle.
type Window struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the given position lies inside the window.
func (w Window) Contains(lat, lon float64) bool {
	return lat >= w.MinLat && lat <= w.MaxLat && lon >= w.MinLon && lon <= w.MaxLon
}

// Store is the row storage backing the spatial cache.
type Store interface {
	// Insert persists a row and returns its ID.
	Insert(ctx context.Context, row Row) (int64, error)
	// QueryWindow returns the rows for locale inside the window, oldest first.
	QueryWindow(ctx context.Context, window Window, locale string) ([]Row, error)
	// DeleteOlderThan removes all rows created before cutoff and returns their count.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// List returns all rows, oldest first.
	List(ctx context.Context) ([]Row, error)
	Close() error
}

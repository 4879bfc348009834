// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package memory

import (
	"testing"
	"time"

	"github.com/wneessen/geocached/internal/cache"
)

func TestStore(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	window := cache.Window{MinLat: 52.5, MaxLat: 52.6, MinLon: 13.3, MaxLon: 13.4}

	t.Run("inserted rows get increasing IDs", func(t *testing.T) {
		store := New()
		first, err := store.Insert(t.Context(), cache.Row{Lat: 52.55, Lon: 13.35, Locale: "de", CreatedAt: now})
		if err != nil {
			t.Fatalf("failed to insert row: %s", err)
		}
		second, err := store.Insert(t.Context(), cache.Row{Lat: 52.55, Lon: 13.35, Locale: "de", CreatedAt: now})
		if err != nil {
			t.Fatalf("failed to insert row: %s", err)
		}
		if second <= first {
			t.Errorf("expected second ID %d to be greater than %d", second, first)
		}
	})
	t.Run("window query filters by position and locale", func(t *testing.T) {
		store := New()
		for _, row := range []cache.Row{
			{Lat: 52.55, Lon: 13.35, Locale: "de", CreatedAt: now},
			{Lat: 52.55, Lon: 13.35, Locale: "en", CreatedAt: now},
			{Lat: 52.65, Lon: 13.35, Locale: "de", CreatedAt: now},
			{Lat: 52.6, Lon: 13.3, Locale: "de", CreatedAt: now},
		} {
			if _, err := store.Insert(t.Context(), row); err != nil {
				t.Fatalf("failed to insert row: %s", err)
			}
		}
		rows, err := store.QueryWindow(t.Context(), window, "de")
		if err != nil {
			t.Fatalf("failed to query rows: %s", err)
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 rows, got %d", len(rows))
		}
	})
	t.Run("old rows are deleted", func(t *testing.T) {
		store := New()
		_, _ = store.Insert(t.Context(), cache.Row{Locale: "de", CreatedAt: now.Add(-time.Hour * 2)})
		_, _ = store.Insert(t.Context(), cache.Row{Locale: "de", CreatedAt: now})
		deleted, err := store.DeleteOlderThan(t.Context(), now.Add(-time.Hour))
		if err != nil {
			t.Fatalf("failed to delete rows: %s", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted row, got %d", deleted)
		}
		rows, err := store.List(t.Context())
		if err != nil {
			t.Fatalf("failed to list rows: %s", err)
		}
		if len(rows) != 1 || !rows[0].CreatedAt.Equal(now) {
			t.Errorf("expected only the recent row to remain, got %+v", rows)
		}
	})
	t.Run("close succeeds", func(t *testing.T) {
		if err := New().Close(); err != nil {
			t.Errorf("failed to close store: %s", err)
		}
	})
}

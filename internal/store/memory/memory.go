// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package memory provides an in-process cache.Store. Rows are lost on exit.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/wneessen/geocached/internal/cache"
)

type Store struct {
	mu     sync.RWMutex
	rows   []cache.Row
	nextID int64
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Insert(_ context.Context, row cache.Row) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row.ID = s.nextID
	row.Address = slices.Clone(row.Address)
	s.nextID++
	s.rows = append(s.rows, row)
	return row.ID, nil
}

func (s *Store) QueryWindow(_ context.Context, window cache.Window, locale string) ([]cache.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []cache.Row
	for _, row := range s.rows {
		if row.Locale == locale && window.Contains(row.Lat, row.Lon) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *Store) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.rows)
	s.rows = slices.DeleteFunc(s.rows, func(row cache.Row) bool {
		return row.CreatedAt.Before(cutoff)
	})
	return int64(before - len(s.rows)), nil
}

func (s *Store) List(context.Context) ([]cache.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rows), nil
}

func (s *Store) Close() error {
	return nil
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
)

// Store hands out the current configuration snapshot. Readers call Current once per
// operation and work with that snapshot. Reload swaps in a freshly loaded snapshot.
type Store struct {
	current atomic.Pointer[Config]
	load    func() (*Config, error)
}

// NewStore loads the initial configuration. If file is empty only defaults and the
// environment are used.
func NewStore(file string) (*Store, error) {
	loader := New
	if file != "" {
		path, name := filepath.Dir(file), filepath.Base(file)
		loader = func() (*Config, error) { return NewFromFile(path, name) }
	}
	return NewStoreWithLoader(loader)
}

// NewStoreWithLoader creates a Store backed by a custom loader function.
func NewStoreWithLoader(loader func() (*Config, error)) (*Store, error) {
	s := &Store{load: loader}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps an already loaded configuration. Reload re-validates and keeps it.
func NewStaticStore(conf *Config) *Store {
	s := &Store{load: func() (*Config, error) {
		clone := *conf
		return &clone, clone.Validate()
	}}
	s.current.Store(conf)
	return s
}

// Current returns the active configuration snapshot.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Set replaces the active snapshot.
func (s *Store) Set(conf *Config) {
	s.current.Store(conf)
}

// Reload re-reads the configuration sources. On failure the previous snapshot stays
// active. A result equal to the active snapshot keeps the active pointer.
func (s *Store) Reload() error {
	conf, err := s.load()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	if current := s.current.Load(); current != nil && *current == *conf {
		return nil
	}
	s.current.Store(conf)
	return nil
}

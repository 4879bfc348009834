// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package cache implements the spatial reverse geocoding cache. Entries are matched
// within a rectangular tolerance window around the queried coordinate and expire
// after a configurable TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/config"
	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/job"
	"github.com/wneessen/geocached/internal/logger"
	"github.com/wneessen/geocached/internal/observability"
)

// Epsilon is the lookup tolerance in degrees per axis (about 11 m).
const Epsilon = 0.0001

// Spatial is the spatial TTL cache. Enablement and TTL are read from the current
// configuration snapshot on every call.
type Spatial struct {
	store   Store
	conf    *config.Store
	clock   clockwork.Clock
	logger  *logger.Logger
	metrics *observability.Metrics
	sweeper *job.Job
}

// New returns a Spatial cache on top of store.
func New(store Store, conf *config.Store, clock clockwork.Clock, log *logger.Logger,
	metrics *observability.Metrics,
) *Spatial {
	s := &Spatial{
		store:   store,
		conf:    conf,
		clock:   clock,
		logger:  log,
		metrics: metrics,
	}
	s.sweeper = job.New(func(ctx context.Context) {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("failed to sweep expired cache rows", logger.Err(err))
		}
	})
	return s
}

// Lookup returns the cached address for coord and locale using the current
// configuration snapshot. Before the lookup a sweep of expired rows is started in the
// background; it is not awaited.
func (s *Spatial) Lookup(ctx context.Context, coord geocode.Coordinate, locale language.Tag) (geocode.Address, bool) {
	return s.LookupWith(ctx, s.conf.Current(), coord, locale)
}

// LookupWith is like Lookup but reads enablement from the given snapshot.
func (s *Spatial) LookupWith(ctx context.Context, conf *config.Config, coord geocode.Coordinate,
	locale language.Tag,
) (geocode.Address, bool) {
	if !conf.CacheEnabled() {
		s.count("disabled")
		return geocode.Address{}, false
	}
	s.sweeper.Trigger(ctx)

	rows, err := s.store.QueryWindow(ctx, WindowAround(coord), locale.String())
	if err != nil {
		s.logger.Error("failed to query address cache", logger.Err(err))
		s.count("miss")
		return geocode.Address{}, false
	}
	for _, row := range rows {
		var addr geocode.Address
		if err = json.Unmarshal(row.Address, &addr); err != nil {
			s.logger.Warn("skipping undecodable cache row", logger.Err(err), "id", row.ID)
			continue
		}
		s.count("hit")
		return addr, true
	}
	s.count("miss")
	return geocode.Address{}, false
}

// Store persists addr for coord and locale. It is a no-op when the cache is disabled
// in the current configuration snapshot.
func (s *Spatial) Store(ctx context.Context, coord geocode.Coordinate, locale language.Tag, addr geocode.Address) {
	s.StoreWith(ctx, s.conf.Current(), coord, locale, addr)
}

// StoreWith is like Store but reads enablement from the given snapshot.
func (s *Spatial) StoreWith(ctx context.Context, conf *config.Config, coord geocode.Coordinate,
	locale language.Tag, addr geocode.Address,
) {
	if !conf.CacheEnabled() {
		return
	}
	data, err := json.Marshal(addr)
	if err != nil {
		s.logger.Error("failed to serialize address for cache", logger.Err(err))
		return
	}
	row := Row{
		Lat:       coord.Lat,
		Lon:       coord.Lon,
		Locale:    locale.String(),
		Address:   data,
		CreatedAt: s.clock.Now(),
	}
	if _, err = s.store.Insert(ctx, row); err != nil {
		s.logger.Error("failed to store address in cache", logger.Err(err))
	}
}

// Sweep deletes all rows that are older than the configured TTL.
func (s *Spatial) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.conf.Current().Cache.TTL)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache rows: %w", err)
	}
	if deleted > 0 {
		s.logger.Debug("evicted expired cache rows", "count", deleted)
		if s.metrics != nil {
			s.metrics.CacheEvicted.Add(float64(deleted))
		}
	}
	return deleted, nil
}

// WaitSweep blocks until a background sweep triggered by Lookup has finished.
func (s *Spatial) WaitSweep() {
	s.sweeper.Wait()
}

// Rows returns all cached rows.
func (s *Spatial) Rows(ctx context.Context) ([]Row, error) {
	return s.store.List(ctx)
}

// WindowAround returns the tolerance window centered on coord.
func WindowAround(coord geocode.Coordinate) Window {
	return Window{
		MinLat: coord.Lat - Epsilon,
		MaxLat: coord.Lat + Epsilon,
		MinLon: coord.Lon - Epsilon,
		MaxLon: coord.Lon + Epsilon,
	}
}

func (s *Spatial) count(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.GeocodeCache.WithLabelValues(result).Inc()
}

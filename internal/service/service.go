// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service is the geocoding facade. It combines the spatial cache, the
// configured provider adapter, the fetch orchestrator and the normalizer and absorbs
// every network or data failure into an absent result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/geocached/internal/cache"
	"github.com/wneessen/geocached/internal/config"
	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/job"
	"github.com/wneessen/geocached/internal/logger"
	"github.com/wneessen/geocached/internal/observability"
)

const (
	methodReverse = "reverse"
	methodSearch  = "search"

	sweepJobName = "cache_sweep_job"
)

var _ geocode.Geocoder = (*Service)(nil)

type Service struct {
	config    *config.Store
	cache     *cache.Spatial
	logger    *logger.Logger
	metrics   *observability.Metrics
	scheduler gocron.Scheduler

	SignalSrc signalSource

	adapterLock sync.Mutex
	adapter     *adapter
}

func New(conf *config.Store, spatial *cache.Spatial, log *logger.Logger, metrics *observability.Metrics) (*Service, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	service := &Service{
		config:    conf,
		cache:     spatial,
		logger:    log,
		metrics:   metrics,
		scheduler: scheduler,
		SignalSrc: stdLibSignalSource{},
	}
	if _, err = service.adapterFor(conf.Current()); err != nil {
		return nil, err
	}
	return service, nil
}

// Run starts the periodic cache sweep and the config reload loop and blocks until ctx
// is cancelled.
func (s *Service) Run(ctx context.Context) error {
	conf := s.config.Current()
	if err := s.createScheduledJob(ctx, conf.Cache.SweepInterval, s.sweepJob, sweepJobName); err != nil {
		return err
	}
	s.scheduler.Start()

	reloader := job.New(s.reloadConfig)
	reloading := make(chan struct{})
	go func() {
		defer close(reloading)
		reloader.Start(ctx, conf.ReloadInterval)
	}()

	// Wait for the context to cancel
	<-ctx.Done()
	<-reloading
	reloader.Wait()
	return s.scheduler.Shutdown()
}

// Reverse resolves lat/lon into at most one address. max is accepted for interface
// parity and ignored. Only a malformed locale is reported as an error.
func (s *Service) Reverse(ctx context.Context, lat, lon float64, _ int, locale string) ([]geocode.Address, error) {
	result, err := s.ReverseResult(ctx, geocode.Coordinate{Lat: lat, Lon: lon}, locale)
	if err != nil {
		return nil, err
	}
	return result.Addresses, nil
}

// Search resolves a free-text query into up to max addresses. A non-zero box bounds
// the search area. Search results are never cached.
func (s *Service) Search(ctx context.Context, query string, max int, box geocode.BoundingBox, locale string) ([]geocode.Address, error) {
	result, err := s.SearchResult(ctx, query, max, box, locale)
	if err != nil {
		return nil, err
	}
	return result.Addresses, nil
}

// ReverseResult is like Reverse but reports how the request ended.
func (s *Service) ReverseResult(ctx context.Context, coord geocode.Coordinate, locale string) (geocode.Result, error) {
	tag, err := geocode.ParseLocale(locale)
	if err != nil {
		return geocode.Result{}, err
	}
	if err = coord.Validate(); err != nil {
		return s.record(methodReverse, geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}), nil
	}

	conf := s.config.Current()
	if addr, ok := s.cache.LookupWith(ctx, conf, coord, tag); ok {
		s.logger.Debug("address served from cache", slog.Float64("lat", coord.Lat),
			slog.Float64("lon", coord.Lon), slog.String("locale", tag.String()))
		return s.record(methodReverse, geocode.Result{Addresses: []geocode.Address{addr},
			Outcome: geocode.OutcomeCacheHit}), nil
	}

	adapt, err := s.adapterFor(conf)
	if err != nil {
		return s.record(methodReverse, geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}), nil
	}

	body, err := adapt.fetch(ctx, adapt.provider.ReverseURL(coord, tag))
	if err != nil {
		return s.record(methodReverse, geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}), nil
	}
	addr, err := adapt.normalizer.Reverse(adapt.provider.Fields(), tag, body)
	if err != nil {
		return s.record(methodReverse, absent(err)), nil
	}

	s.cache.StoreWith(ctx, conf, coord, tag, addr)
	return s.record(methodReverse, geocode.Result{Addresses: []geocode.Address{addr},
		Outcome: geocode.OutcomeFound}), nil
}

// SearchResult is like Search but reports how the request ended.
func (s *Service) SearchResult(ctx context.Context, query string, max int, box geocode.BoundingBox, locale string) (geocode.Result, error) {
	tag, err := geocode.ParseLocale(locale)
	if err != nil {
		return geocode.Result{}, err
	}
	if err = box.Validate(); err != nil {
		return s.record(methodSearch, geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}), nil
	}

	adapt, err := s.adapterFor(s.config.Current())
	if err != nil {
		return s.record(methodSearch, geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}), nil
	}

	body, err := adapt.fetch(ctx, adapt.provider.SearchURL(query, max, box, tag))
	if err != nil {
		return s.record(methodSearch, geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}), nil
	}
	list, err := adapt.normalizer.Search(adapt.provider.Fields(), tag, body)
	if err != nil {
		return s.record(methodSearch, absent(err)), nil
	}
	if max > 0 && len(list) > max {
		list = list[:max]
	}
	return s.record(methodSearch, geocode.Result{Addresses: list, Outcome: geocode.OutcomeFound}), nil
}

// SweepCache runs one eviction pass over the cache and returns the number of removed rows.
func (s *Service) SweepCache(ctx context.Context) (int64, error) {
	return s.cache.Sweep(ctx)
}

// CachedRows lists all rows currently held by the cache.
func (s *Service) CachedRows(ctx context.Context) ([]cache.Row, error) {
	return s.cache.Rows(ctx)
}

func (s *Service) record(method string, result geocode.Result) geocode.Result {
	if result.Absent() {
		s.logger.Debug("geocode request produced no result", slog.String("method", method),
			slog.String("outcome", result.Outcome.String()), logger.Err(result.Err))
	}
	if s.metrics != nil {
		s.metrics.GeocodeRequests.WithLabelValues(method, result.Outcome.String()).Inc()
	}
	return result
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

func (s *Service) sweepJob(ctx context.Context) {
	deleted, err := s.SweepCache(ctx)
	if err != nil {
		s.logger.Error("scheduled cache sweep failed", logger.Err(err))
		return
	}
	s.logger.Debug("scheduled cache sweep finished", slog.Int64("deleted", deleted))
}

func (s *Service) reloadConfig(context.Context) {
	if err := s.config.Reload(); err != nil {
		s.logger.Error("failed to reload configuration, keeping current", logger.Err(err))
		return
	}
	s.logger.Debug("configuration reloaded", slog.String("provider", s.config.Current().GeoCoder.Provider))
}

func absent(err error) geocode.Result {
	if errors.Is(err, geocode.ErrNoResult) {
		return geocode.Result{Outcome: geocode.OutcomeMiss, Err: err}
	}
	return geocode.Result{Outcome: geocode.OutcomeFailed, Err: err}
}


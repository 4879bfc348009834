// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/geocached/internal/config"
	"github.com/wneessen/geocached/internal/fetch"
	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/geocode/format"
	"github.com/wneessen/geocached/internal/geocode/normalize"
	"github.com/wneessen/geocached/internal/geocode/provider"
	"github.com/wneessen/geocached/internal/http"
	"github.com/wneessen/geocached/internal/logger"
	"github.com/wneessen/geocached/internal/wake"
)

// adapter bundles everything derived from one configuration snapshot.
type adapter struct {
	conf       *config.Config
	client     *http.Client
	provider   geocode.Provider
	fetcher    *fetch.Fetcher
	normalizer *normalize.Normalizer
	wake       wake.Strategy
	logger     *logger.Logger
}

// adapterFor returns the adapter for conf, building a new one if the snapshot changed
// since the last call.
func (s *Service) adapterFor(conf *config.Config) (*adapter, error) {
	s.adapterLock.Lock()
	defer s.adapterLock.Unlock()
	if s.adapter != nil && s.adapter.conf == conf {
		return s.adapter, nil
	}

	prov, err := provider.New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode provider: %w", err)
	}
	var formatter normalize.Formatter
	if conf.FormatterEnabled() {
		f, err := format.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create address formatter: %w", err)
		}
		formatter = f
	}

	client := http.NewWithTimeouts(s.logger, conf.HTTP.ConnectTimeout, conf.HTTP.ReadTimeout)
	if s.adapter != nil {
		s.adapter.client.CloseIdleConnections()
	}
	s.adapter = &adapter{
		conf:       conf,
		client:     client,
		provider:   prov,
		fetcher:    fetch.New(client, s.logger, s.observeFetch(prov.Name())),
		normalizer: normalize.New(s.logger, formatter),
		wake:       wake.New(conf.Wake.Strategy, s.logger),
		logger:     s.logger,
	}
	s.logger.Debug("geocode adapter initialized", slog.String("provider", prov.Name()),
		slog.String("wake", conf.Wake.Strategy), slog.Bool("formatter", formatter != nil))
	return s.adapter, nil
}

// fetch keeps the host awake for the duration of one provider request. The hold is
// released when the request completes, even if the caller stopped waiting earlier.
func (a *adapter) fetch(ctx context.Context, url string) ([]byte, error) {
	release, err := a.wake.BeforeFetch(ctx)
	if err != nil {
		a.logger.Warn("wake strategy failed, continuing", logger.Err(err))
		release = func() {}
	}

	task := a.fetcher.Start(ctx, url)
	go func() {
		<-task.Done()
		release()
	}()
	return task.Await(ctx)
}

func (s *Service) observeFetch(name string) fetch.Observer {
	if s.metrics == nil {
		return nil
	}
	return func(duration time.Duration, _ error) {
		s.metrics.FetchDuration.WithLabelValues(name).Observe(duration.Seconds())
	}
}

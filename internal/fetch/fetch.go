// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package fetch runs provider HTTP requests on their own goroutine and lets callers
// block until the response is available.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/logger"
)

// Getter performs a GET request and returns the raw body.
type Getter interface {
	GetBytes(ctx context.Context, endpoint string) ([]byte, error)
}

// Observer is notified about the duration of every finished request.
type Observer func(duration time.Duration, err error)

// Fetcher starts fetch tasks.
type Fetcher struct {
	client  Getter
	logger  *logger.Logger
	observe Observer
}

// Task is a single in-flight request. It completes exactly once.
type Task struct {
	url  string
	done chan struct{}
	body []byte
	err  error
}

// New returns a Fetcher using the given client. observe may be nil.
func New(client Getter, log *logger.Logger, observe Observer) *Fetcher {
	return &Fetcher{client: client, logger: log, observe: observe}
}

// Start issues the request immediately on a new goroutine. Cancelling ctx after Start
// returns does not abort the request; it runs until it completes or the transport
// timeouts fire. Values of ctx are kept.
func (f *Fetcher) Start(ctx context.Context, url string) *Task {
	task := &Task{url: url, done: make(chan struct{})}
	go f.run(context.WithoutCancel(ctx), task)
	return task
}

func (f *Fetcher) run(ctx context.Context, task *Task) {
	defer close(task.done)

	start := time.Now()
	body, err := f.client.GetBytes(ctx, task.url)
	if f.observe != nil {
		f.observe(time.Since(start), err)
	}
	if err != nil {
		f.logger.Warn("provider request failed", logger.Err(err))
		task.err = fmt.Errorf("%w: %w", geocode.ErrFetchFailed, err)
		return
	}
	task.body = body
}

// Done is closed once the task has completed.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Await blocks until the task completes or ctx is done. A failed request yields an
// empty body and an error wrapping geocode.ErrFetchFailed. Await may be called by any
// number of goroutines.
func (t *Task) Await(ctx context.Context) ([]byte, error) {
	select {
	case <-t.done:
		return t.body, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

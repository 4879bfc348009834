// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package job

import (
	"context"
	"sync"
	"time"
)

// Job represents a background task that never overlaps with itself (singleton mode).
// It can be triggered on demand or on a fixed interval.
type Job struct {
	task func(context.Context)

	// sem is a 1-slot semaphore that guards "is a run in progress?"
	sem chan struct{}
	wg  sync.WaitGroup
}

// New creates a new Job for the given task.
func New(task func(context.Context)) *Job {
	return &Job{
		task: task,
		sem:  make(chan struct{}, 1),
	}
}

// Trigger starts a run of the task on a new goroutine and returns immediately. If a
// run is already in progress, nothing happens and Trigger returns false. The run
// keeps the values of ctx but is not cancelled with it.
func (j *Job) Trigger(ctx context.Context) bool {
	if j.task == nil {
		return false
	}

	// Try to acquire the semaphore without blocking.
	select {
	case j.sem <- struct{}{}:
	default:
		return false
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		defer func() { <-j.sem }()
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		j.task(runCtx)
	}()
	return true
}

// Wait blocks until all triggered runs have returned.
func (j *Job) Wait() {
	j.wg.Wait()
}

// Start triggers the job at the given interval until ctx is cancelled. Ticks that
// fire while a previous run is still executing are skipped.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if j.task == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Trigger(ctx)
		}
	}
}

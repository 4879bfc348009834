// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package job

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"
)

type testType struct {
	count     atomic.Int32
	completed bool
}

func TestNew(t *testing.T) {
	job := New(func(context.Context) {})
	if job == nil {
		t.Fatal("expected job to be non-nil")
	}
}

func TestJob_Trigger(t *testing.T) {
	t.Run("triggered job runs in the background", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			tester := &testType{}
			testJob := New(tester.testFunc)
			if !testJob.Trigger(t.Context()) {
				t.Fatal("expected job to be started")
			}
			testJob.Wait()
			if tester.count.Load() != 1 {
				t.Errorf("expected job to execute once, got %d", tester.count.Load())
			}
		})
	})
	t.Run("trigger while running is skipped", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			var runs atomic.Int32
			testJob := New(func(context.Context) {
				runs.Add(1)
				time.Sleep(time.Second)
			})
			if !testJob.Trigger(t.Context()) {
				t.Fatal("expected first trigger to start the job")
			}
			if testJob.Trigger(t.Context()) {
				t.Error("expected second trigger to be skipped")
			}
			testJob.Wait()
			if !testJob.Trigger(t.Context()) {
				t.Error("expected trigger after completion to start the job")
			}
			testJob.Wait()
			if runs.Load() != 2 {
				t.Errorf("expected job to execute 2 times, got %d", runs.Load())
			}
		})
	})
	t.Run("run outlives the triggering context", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			var cancelled atomic.Bool
			testJob := New(func(ctx context.Context) {
				time.Sleep(time.Second)
				cancelled.Store(ctx.Err() != nil)
			})
			ctx, cancel := context.WithCancel(t.Context())
			testJob.Trigger(ctx)
			cancel()
			testJob.Wait()
			if cancelled.Load() {
				t.Error("expected run context to stay active")
			}
		})
	})
	t.Run("nil job is never started", func(t *testing.T) {
		if New(nil).Trigger(t.Context()) {
			t.Error("expected nil job to not start")
		}
	})
}

func TestJob_Start(t *testing.T) {
	t.Run("job returns after context cancel", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			tester := &testType{}

			ctx, cancel := context.WithCancel(t.Context())
			context.AfterFunc(ctx, func() {
				tester.completed = true
			})

			testJob := New(tester.testFunc)
			go testJob.Start(ctx, time.Millisecond*100)

			synctest.Wait()
			if tester.completed {
				t.Fatal("expected job to not be completed before context was cancelled")
			}

			cancel()
			synctest.Wait()
			if !tester.completed {
				t.Fatal("expected job to be completed after context was cancelled")
			}
		})
	})
	t.Run("job ticker executes", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(t.Context(), time.Millisecond*105)
			defer cancel()
			tester := &testType{}

			testJob := New(tester.testFunc)
			testJob.Start(ctx, time.Millisecond*10)
			testJob.Wait()

			if tester.count.Load() != 5 {
				t.Errorf("expected job to execute 5 times, got %d", tester.count.Load())
			}
		})
	})
	t.Run("nil job returns", func(t *testing.T) {
		tester := New(nil)
		tester.Start(t.Context(), time.Millisecond*100)
	})
	t.Run("zero interval returns", func(t *testing.T) {
		tester := New(func(context.Context) {})
		tester.Start(t.Context(), 0)
	})
}

func (t *testType) testFunc(context.Context) {
	if t.count.Load() >= 5 {
		return
	}
	t.count.Add(1)
}

package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Runner executes named fire-and-forget tasks with bounded concurrency.
// Every task gets a fresh context that outlives the request that scheduled it.
type Runner struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	log     *slog.Logger
	wg      sync.WaitGroup
}

func NewRunner(limit int64, timeout time.Duration, log *slog.Logger) *Runner {
	if limit < 1 {
		limit = 1
	}
	return &Runner{
		sem:     semaphore.NewWeighted(limit),
		timeout: timeout,
		log:     log,
	}
}

// Go schedules fn. When the pool is saturated the task waits for a slot in its own goroutine.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		if err := r.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer r.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := r.run(ctx, fn); err != nil {
			r.log.Error("background task failed",
				slog.String("task", name),
				slog.Duration("elapsed", time.Since(start)),
				slog.Any("error", err),
			)
			return
		}
		r.log.Debug("background task done", slog.String("task", name), slog.Duration("elapsed", time.Since(start)))
	}()
}

func (r *Runner) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every scheduled task has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

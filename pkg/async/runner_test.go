package async

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(limit int64, timeout time.Duration) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&syncWriter{buf: &buf}, nil))
	return NewRunner(limit, timeout, log), &buf
}

type syncWriter struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestRunner_RunsAllTasks(t *testing.T) {
	r, _ := newTestRunner(2, time.Second)
	var count int32

	for i := 0; i < 10; i++ {
		r.Go("count", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		})
	}

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestRunner_BoundsConcurrency(t *testing.T) {
	r, _ := newTestRunner(2, time.Second)
	var running, peak int32

	for i := 0; i < 8; i++ {
		r.Go("slow", func(ctx context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	require.NoError(t, r.Wait(context.Background()))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunner_LogsFailuresAndPanics(t *testing.T) {
	r, buf := newTestRunner(1, time.Second)

	r.Go("index-job", func(ctx context.Context) error { return errors.New("index down") })
	r.Go("send-mail", func(ctx context.Context) error { panic("boom") })

	require.NoError(t, r.Wait(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"task":"index-job"`)
	assert.Contains(t, out, "index down")
	assert.Contains(t, out, `"task":"send-mail"`)
	assert.Contains(t, out, "panic: boom")
}

func TestRunner_TaskContextHasTimeout(t *testing.T) {
	r, buf := newTestRunner(1, 20*time.Millisecond)

	r.Go("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, r.Wait(context.Background()))
	assert.Contains(t, buf.String(), "deadline exceeded")
}

func TestRunner_WaitHonoursContext(t *testing.T) {
	r, _ := newTestRunner(1, time.Second)
	release := make(chan struct{})
	r.Go("blocked", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, r.Wait(context.Background()))
}

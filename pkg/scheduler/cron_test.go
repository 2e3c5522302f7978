package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_AddRejectsBadSpec(t *testing.T) {
	s := New(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, s.Add("@daily", "purge", func(ctx context.Context) error { return nil }))
	assert.NoError(t, s.Add("0 */6 * * *", "purge", func(ctx context.Context) error { return nil }))
	assert.Error(t, s.Add("every tuesday", "purge", func(ctx context.Context) error { return nil }))
}

func TestScheduler_RunsJob(t *testing.T) {
	s := New(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ran := make(chan struct{}, 1)

	err := s.Add("@every 1s", "tick", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	assert.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

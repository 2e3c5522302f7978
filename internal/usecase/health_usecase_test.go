package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-jobboard-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthUsecase_Check(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }

	t.Run("all dependencies up", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": ok, "redis": ok})

		status, healthy := uc.Check(context.Background())

		assert.True(t, healthy)
		assert.Equal(t, map[string]string{"status": "ok", "database": "ok", "redis": "ok"}, status)
	})

	t.Run("one dependency down", func(t *testing.T) {
		uc := usecase.NewHealthUsecase(map[string]usecase.Pinger{
			"database": ok,
			"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
		})

		status, healthy := uc.Check(context.Background())

		assert.False(t, healthy)
		assert.Equal(t, "degraded", status["status"])
		assert.Equal(t, "connection refused", status["redis"])
	})
}

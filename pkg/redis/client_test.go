package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptions(t *testing.T) {
	t.Run("default port and password from url", func(t *testing.T) {
		opts, err := buildOptions(Config{URL: "redis://:secret@cache.internal"})

		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6379", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 2, opts.Protocol)
		assert.Nil(t, opts.TLSConfig)
	})

	t.Run("explicit password wins and rediss enables tls", func(t *testing.T) {
		opts, err := buildOptions(Config{URL: "rediss://:fromurl@cache.internal:6380", Password: "explicit"})

		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, "explicit", opts.Password)
		assert.NotNil(t, opts.TLSConfig)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := buildOptions(Config{URL: "://bad"})
		assert.Error(t, err)
	})
}

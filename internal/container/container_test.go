package container

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytharvest/internal/config"
	"ytharvest/pkg/logger"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		config      *config.Config
		expectRedis bool
	}{
		{
			name: "container with Redis configured",
			config: &config.Config{
				Environment:    "test",
				RedisURL:       fmt.Sprintf("redis://%s/0", mr.Addr()),
				YouTubeAPIKeys: []string{"test-api-key"},
			},
			expectRedis: true,
		},
		{
			name: "container without Redis configured",
			config: &config.Config{
				Environment:    "test",
				RedisURL:       "",
				YouTubeAPIKeys: []string{"test-api-key"},
			},
			expectRedis: false,
		},
		{
			name: "container with invalid Redis URL proceeds without caching",
			config: &config.Config{
				Environment:    "test",
				RedisURL:       "invalid://redis-url",
				YouTubeAPIKeys: []string{"test-api-key"},
			},
			expectRedis: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testLogger, err := logger.New("info", true)
			require.NoError(t, err)

			c, err := New(tt.config, testLogger, nil)
			require.NoError(t, err)
			require.NotNil(t, c)

			assert.Equal(t, tt.config, c.Config)
			assert.NotNil(t, c.Logger)
			assert.NotNil(t, c.Channels)
			assert.NotNil(t, c.Playlists)
			assert.NotNil(t, c.Videos)
			assert.NotNil(t, c.Comments)
			assert.NotNil(t, c.Harvester)
			assert.NotNil(t, c.Catalog)
			assert.NotNil(t, c.Reports)

			assert.Equal(t, tt.expectRedis, c.HasRedis())
		})
	}
}

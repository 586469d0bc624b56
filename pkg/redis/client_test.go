package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "invalid URL",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "unreachable server",
			url:         "redis://127.0.0.1:1",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestClient_SetGet(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyReportResult("top_viewed_videos")
	require.NoError(t, client.Set(ctx, key, `[{"video":"x"}]`, TTLReport))

	val, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"video":"x"}]`, val)
}

func TestClient_GetMiss(t *testing.T) {
	_, client := setupTestRedis(t)

	_, err := client.Get(context.Background(), client.KeyBuilder.KeyChannelsAll())
	assert.ErrorIs(t, err, Nil)
}

func TestClient_Delete(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyChannelByID("UC2J_VKrAzOEJuQvFFtj3KUw")
	require.NoError(t, client.Set(ctx, key, "cached", time.Minute))
	require.NoError(t, client.Delete(ctx, key))

	n, err := client.Exists(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClient_TTLExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	key := client.KeyBuilder.KeyLastHarvestedAt("UC2J_VKrAzOEJuQvFFtj3KUw")
	require.NoError(t, client.Set(ctx, key, "2023-01-05 10:00:00", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := client.Get(ctx, key)
	assert.ErrorIs(t, err, Nil)
}

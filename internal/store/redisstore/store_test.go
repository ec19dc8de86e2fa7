package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromClient(rdb, ttl), mr
}

func TestPanel_DefaultsClosed(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	open, err := s.PanelOpen(context.Background(), "sess-a")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestPanel_Toggle(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	open, err := s.TogglePanel(ctx, "sess-a")
	require.NoError(t, err)
	assert.True(t, open)

	open, err = s.PanelOpen(ctx, "sess-a")
	require.NoError(t, err)
	assert.True(t, open)
	assert.Equal(t, time.Hour, mr.TTL("panel:sess-a"))

	open, err = s.TogglePanel(ctx, "sess-a")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestPanel_PartitionedBySession(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.SetPanelOpen(ctx, "sess-a", true))

	open, err := s.PanelOpen(ctx, "sess-b")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestPanel_DeleteSession(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.SetPanelOpen(ctx, "sess-a", true))
	require.NoError(t, s.DeleteSession(ctx, "sess-a"))
	assert.False(t, mr.Exists("panel:sess-a"))

	open, err := s.PanelOpen(ctx, "sess-a")
	require.NoError(t, err)
	assert.False(t, open)
}

package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSet(t *testing.T, ttl time.Duration) (*ReplySet, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewReplySet(client, "", ttl), mr
}

func TestReplySet_AddContains(t *testing.T) {
	ctx := context.Background()
	set, mr := newTestSet(t, 0)

	ok, err := set.Contains(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, set.Add(ctx, "abc123"))
	require.NoError(t, set.Add(ctx, "abc123"))

	ok, err = set.Contains(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := set.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.True(t, mr.Exists("empleos:replied"))
	assert.Equal(t, time.Duration(0), mr.TTL("empleos:replied"))
}

func TestReplySet_TTL(t *testing.T) {
	ctx := context.Background()
	set, mr := newTestSet(t, 48*time.Hour)

	require.NoError(t, set.Add(ctx, "c1"))
	assert.Equal(t, 48*time.Hour, mr.TTL("empleos:replied"))

	mr.FastForward(49 * time.Hour)
	ok, err := set.Contains(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplySet_Import(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t, 0)

	require.NoError(t, set.Import(ctx, nil))
	require.NoError(t, set.Import(ctx, []string{"a", "b", "a"}))

	n, err := set.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReplySet_ServerDown(t *testing.T) {
	ctx := context.Background()
	set, mr := newTestSet(t, 0)
	mr.Close()

	_, err := set.Contains(ctx, "x")
	assert.Error(t, err)
	assert.Error(t, set.Add(ctx, "x"))
}

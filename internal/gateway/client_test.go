package gateway

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedClient(t *testing.T) (*Client, *stubUpstream, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	stub := newStubUpstream(t)
	client := NewClient(stub.server.URL, zerolog.Nop())
	client.UseRedisCache(rc, time.Minute)
	return client, stub, mr
}

func TestForwardCachedServesSecondCallFromCache(t *testing.T) {
	ctx := context.Background()
	client, stub, _ := newCachedClient(t)
	stub.body = `[{"id":1,"name":"drill"}]`

	query := url.Values{"text": {"drill"}}
	first, err := client.ForwardCached(ctx, "/items/search", query, "search:drill")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, first.Status)
	require.Len(t, stub.calls, 1)

	second, err := client.ForwardCached(ctx, "/items/search", query, "search:drill")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, second.Status)
	assert.Equal(t, first.Body, second.Body)
	assert.Len(t, stub.calls, 1)
}

func TestForwardCachedExpiredEntryGoesUpstream(t *testing.T) {
	ctx := context.Background()
	client, stub, mr := newCachedClient(t)

	_, err := client.ForwardCached(ctx, "/requests/all", nil, "requests:all")
	require.NoError(t, err)
	require.Len(t, stub.calls, 1)

	mr.FastForward(2 * time.Minute)

	_, err = client.ForwardCached(ctx, "/requests/all", nil, "requests:all")
	require.NoError(t, err)
	assert.Len(t, stub.calls, 2)
}

func TestForwardCachedSkipsNon200(t *testing.T) {
	ctx := context.Background()
	client, stub, mr := newCachedClient(t)
	stub.status = http.StatusNotFound
	stub.body = `{"error":"not found"}`

	resp, err := client.ForwardCached(ctx, "/items/search", nil, "search:x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.False(t, mr.Exists("search:x"))

	_, err = client.ForwardCached(ctx, "/items/search", nil, "search:x")
	require.NoError(t, err)
	assert.Len(t, stub.calls, 2)
}

func TestForwardCachedWithoutRedis(t *testing.T) {
	ctx := context.Background()
	stub := newStubUpstream(t)
	client := NewClient(stub.server.URL, zerolog.Nop())

	for i := 0; i < 2; i++ {
		resp, err := client.ForwardCached(ctx, "/items/search", nil, "search:drill")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
	}
	assert.Len(t, stub.calls, 2)
}

// Package gateway is the validating edge in front of the core server: it
// binds and validates request payloads, resolves the caller identity, and
// forwards everything else upstream unchanged.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"peershare-backend/internal/platform/web"
)

// UpstreamResponse is the relayed result of a forwarded call.
type UpstreamResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Client forwards requests to the core server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// UseRedisCache enables a read-through cache for identity-free GETs.
func (c *Client) UseRedisCache(rc *redis.Client, ttl time.Duration) {
	c.redis = rc
	c.cacheTTL = ttl
}

// Forward relays one request upstream. userID may be empty for endpoints
// that carry no caller identity; body may be nil.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, userID string, body []byte) (*UpstreamResponse, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(web.HeaderUserID, userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	return &UpstreamResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}

// ForwardCached is Forward for GETs whose responses may be served from
// Redis. Only successful responses are cached; anything else falls through
// to the upstream on the next call.
func (c *Client) ForwardCached(ctx context.Context, path string, query url.Values, cacheKey string) (*UpstreamResponse, error) {
	if c.redis != nil && c.cacheTTL > 0 {
		if val, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			return &UpstreamResponse{Status: http.StatusOK, ContentType: "application/json", Body: val}, nil
		}
	}

	resp, err := c.Forward(ctx, http.MethodGet, path, query, "", nil)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusOK && c.redis != nil && c.cacheTTL > 0 {
		if err := c.redis.Set(ctx, cacheKey, resp.Body, c.cacheTTL).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
		}
	}
	return resp, nil
}

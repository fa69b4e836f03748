// Package upstream talks to the remote booking source the dashboard renders.
// Responses are optionally cached in Redis and decoded once, at this
// boundary, into the closed model structs the core computes on.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Client is an HTTP client for the booking-source API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL and API key.
func NewClient(baseURL, apiKey string, ratePerSecond float64, burst int) *Client {
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchBookings fetches booking records overlapping [from, to] (YYYY-MM-DD).
func (c *Client) FetchBookings(ctx context.Context, from, to string) ([]BookingRecord, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bookings?from=%s&to=%s",
		c.baseURL, url.QueryEscape(from), url.QueryEscape(to))
	cacheKey := fmt.Sprintf("bookings:%s:%s", from, to)

	var wrap struct {
		Bookings []BookingRecord `json:"bookings"`
	}
	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Bookings, nil
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Bookings, nil
}

// FetchRooms fetches the room inventory.
func (c *Client) FetchRooms(ctx context.Context) ([]RoomRecord, error) {
	endpoint := fmt.Sprintf("%s/api/v1/rooms", c.baseURL)
	cacheKey := "rooms"

	var wrap struct {
		Rooms []RoomRecord `json:"rooms"`
	}
	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Rooms, nil
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Rooms, nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

package sleeper

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
)

const baseURL = "https://api.sleeper.app/v1"

// The full player catalog is a multi-megabyte payload Sleeper asks clients
// to fetch at most once a day.
const catalogCacheTTL = 24 * time.Hour

type Client struct {
	httpClient   *http.Client
	cachedClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		cachedClient: newCachedClient(catalogCacheTTL),
	}
}

// Get fetches a Sleeper endpoint and decodes the JSON body into result.
func (c *Client) Get(endpoint string, result interface{}) error {
	return get(c.httpClient, endpoint, result)
}

// GetCached is Get through the memory-cache transport, for the player
// catalog endpoint.
func (c *Client) GetCached(endpoint string, result interface{}) error {
	return get(c.cachedClient, endpoint, result)
}

func get(client *http.Client, endpoint string, result interface{}) error {
	url := fmt.Sprintf("%s%s", baseURL, endpoint)

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// newCachedClient wraps the default transport in an in-memory httpcache.
// Sleeper replies without cache headers, so the transport rewrites them to
// enforce our own TTL.
func newCachedClient(maxAge time.Duration) *http.Client {
	ct := httpcache.NewMemoryCacheTransport()
	ct.Transport = &ttlTransport{wrapped: http.DefaultTransport, maxAge: maxAge}
	return &http.Client{Transport: ct, Timeout: 60 * time.Second}
}

type ttlTransport struct {
	wrapped http.RoundTripper
	maxAge  time.Duration
}

func (t *ttlTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.wrapped.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Header.Del("Pragma")
	resp.Header.Del("Expires")
	resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(t.maxAge/time.Second)))
	return resp, nil
}

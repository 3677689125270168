package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/strpbridge/pkg/domain"
)

// PortAllocator yields the bridge port for this host.
type PortAllocator interface {
	Allocate(ctx context.Context) int
}

// Discover returns the base URL of the bridge on this host.
func Discover(ctx context.Context, alloc PortAllocator) string {
	return "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(alloc.Allocate(ctx)))
}

// Client calls the bridge routes.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for baseURL ("http://127.0.0.1:10000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect queues a connect to address. A nil token omits the token header.
func (c *Client) Connect(ctx context.Context, address string, token *string) error {
	headers := map[string]string{domain.HeaderServerIP: address}
	if token != nil {
		headers[domain.HeaderToken] = *token
	}
	_, err := c.get(ctx, domain.RouteConnect, headers)
	return err
}

// Log writes message into the bridge process log.
func (c *Client) Log(ctx context.Context, message string) error {
	_, err := c.get(ctx, domain.RouteLogInfo, map[string]string{domain.HeaderMessage: message})
	return err
}

// Health checks that the bridge answers.
func (c *Client) Health(ctx context.Context) error {
	body, err := c.get(ctx, domain.RouteHealth, nil)
	if err != nil {
		return err
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode health: %w", err)
	}
	if resp.Status != "ok" {
		return fmt.Errorf("bridge unhealthy: %q", resp.Status)
	}
	return nil
}

// IdsMap returns the current local→remote id map and schedules a refresh.
func (c *Client) IdsMap(ctx context.Context) (map[uint32]uint32, error) {
	body, err := c.get(ctx, domain.RouteIdsMap, nil)
	if err != nil {
		return nil, err
	}
	return DecodeIdsMap(body)
}

// WaitIdsMap calls IdsMap up to polls times, interval apart, and returns the
// first non-empty map. An empty map after the last poll is not an error.
func (c *Client) WaitIdsMap(ctx context.Context, polls int, interval time.Duration) (map[uint32]uint32, error) {
	var ids map[uint32]uint32
	for i := 0; i < polls; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}
		var err error
		ids, err = c.IdsMap(ctx)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return ids, nil
		}
	}
	return ids, nil
}

// DecodeIdsMap parses a snapshot body.
func DecodeIdsMap(body []byte) (map[uint32]uint32, error) {
	var raw map[string]uint32
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode ids map: %w", err)
	}
	ids := make(map[uint32]uint32, len(raw))
	for k, v := range raw {
		local, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid local id %q: %w", k, err)
		}
		ids[uint32(local)] = v
	}
	return ids, nil
}

func (c *Client) get(ctx context.Context, route string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", route, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", route, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected status %d", route, resp.StatusCode)
	}
	return body, nil
}

// Package http_client provides a shareable HTTP client provider with sane
// connection pooling defaults.
package http_client

import (
	"context"
	"net/http"
	"time"

	"github.com/vk/modregistry/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func init() {
	registry.Contribute(&Module{})
}

// Client wraps a pooled net/http client. Every instance owns its own
// transport, so one module instance can be torn down without disturbing
// another's connections.
type Client struct {
	httpClient *http.Client
}

// Name returns the module's registry name.
func (c *Client) Name() string { return "http_client" }

// ModuleType returns the module's coarse type tag.
func (c *Client) ModuleType() string { return "provider" }

// Do executes an arbitrary request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// Get issues a GET request against url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// New constructs a Client with its own pooled transport.
func New() (any, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}, nil
}

// Register registers the module's factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	meta := registry.NewMetadata("http_client", "provider", "New", "modules/http_client", "Client")
	meta.Tags = []string{"http", "network"}
	meta.Security.Permissions.NetworkAccess = true
	return r.RegisterWithMetadata("http_client", "provider", New, meta)
}

// Package socketio_client provides a connector module for socket.io
// servers over websocket transport.
package socketio_client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/modregistry/internal/ctxlog"
	"github.com/vk/modregistry/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func init() {
	registry.Contribute(&Module{})
}

// ConnectOptions configures a single connection attempt.
type ConnectOptions struct {
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Conn is a live socket.io connection.
type Conn struct {
	socket *socket.Socket
}

// Emit sends an event with the given payload.
func (c *Conn) Emit(event string, data ...any) {
	c.socket.Emit(event, data...)
}

// On registers a listener for the named event.
func (c *Conn) On(event string, fn func(...any)) {
	c.socket.On(types.EventName(event), fn)
}

// Close disconnects the socket.
func (c *Conn) Close() {
	c.socket.Disconnect()
}

// Connector dials socket.io servers. Instances are stateless; every Connect
// call builds a fresh manager and socket.
type Connector struct{}

// Name returns the module's registry name.
func (c *Connector) Name() string { return "socketio_client" }

// ModuleType returns the module's coarse type tag.
func (c *Connector) ModuleType() string { return "connector" }

// Connect dials rawURL and blocks until the connection is established, a
// connect error is reported, or the timeout elapses.
func (c *Connector) Connect(ctx context.Context, rawURL string, opts ConnectOptions) (*Conn, error) {
	logger := ctxlog.FromContext(ctx).With("module", "socketio_client", "url", rawURL)
	logger.Debug("Connecting to socket.io server")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	var isConnected atomic.Bool
	done := make(chan error, 1)

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", opts.Namespace, "sid", io.Id())
		done <- nil
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- err
				return
			}
		}
		done <- fmt.Errorf("connect_error: %v", errs)
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		io.Disconnect()
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connection was established")
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, err
		}
		return &Conn{socket: io}, nil
	}
}

// New constructs a Connector.
func New() (any, error) {
	return &Connector{}, nil
}

// Register registers the module's factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	meta := registry.NewMetadata("socketio_client", "connector", "New", "modules/socketio_client", "Connector")
	meta.Tags = []string{"websocket", "network", "realtime"}
	meta.Security.Permissions.NetworkAccess = true
	return r.RegisterWithMetadata("socketio_client", "connector", New, meta)
}

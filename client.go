package socketio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sadewadee/socketio-client/internal/dispatch"
	"github.com/sadewadee/socketio-client/internal/engine"
	"github.com/sadewadee/socketio-client/internal/trace"
)

// Args is the read-only view over a dispatched packet's arguments, handed
// to event and ack callbacks.
type Args = dispatch.Args

// EventCallback handles an inbound Event. ack is non-nil when the incoming
// packet requested one; calling its Send sends the reply.
type EventCallback func(args *Args, ack *AckBuilder)

// AckCallback handles the single inbound Ack matching a prior emit's
// requested ack id.
type AckCallback func(args *Args)

// Client is a connected Socket.IO session: a driver loop cooperatively
// owns the transport's split sink/stream, while Emit and the callback
// registration methods may be called concurrently from any goroutine.
type Client struct {
	namespace string
	sink      Sink
	outbound  chan []outFrame
	closeCh   chan struct{}
	openCh    chan struct{}
	openOnce  sync.Once
	doneCh    chan struct{}
	closeOnce sync.Once

	table   *dispatch.CallbackTable
	logger  *slog.Logger
	tracer  *trace.Tracer

	mu           sync.Mutex
	sid          string
	pingInterval time.Duration
	pingTimeout  time.Duration
	err          error
}

type outFrame struct {
	isText bool
	data   []byte
}

// Connect dials rawURL and starts the driver loop, waiting for the engine
// Open handshake up to the configured handshake timeout.
func Connect(ctx context.Context, rawURL string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	dialURL, err := buildDialURL(rawURL)
	if err != nil {
		return nil, err
	}

	transport, err := o.dialer.Dial(ctx, dialURL)
	if err != nil {
		return nil, err
	}

	return startClient(ctx, transport, o)
}

// FromTransport starts the driver loop over an already-established
// Transport (e.g. one the caller dialed and upgraded itself), skipping the
// URL build and Dial step. This mirrors the "pre-established stream"
// connect variant.
func FromTransport(ctx context.Context, transport Transport, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return startClient(ctx, transport, o)
}

func startClient(ctx context.Context, transport Transport, o *options) (*Client, error) {
	c := &Client{
		namespace: o.namespace,
		sink:      transport.Sink(),
		outbound:  make(chan []outFrame, 64),
		closeCh:   make(chan struct{}),
		openCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		table:     dispatch.NewCallbackTable(),
		logger:    o.logger,
		tracer:    o.newTracer(),
	}

	o.spawner.Spawn(func() {
		c.run(transport.Stream())
	})

	select {
	case <-c.openCh:
		return c, nil
	case <-c.doneCh:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return nil, &TimeoutError{After: o.handshakeTimeout}
	case <-time.After(o.handshakeTimeout):
		return nil, &TimeoutError{After: o.handshakeTimeout}
	case <-ctx.Done():
		return nil, &ConnectionError{Err: ctx.Err()}
	}
}

// Emit starts building an outgoing event on the client's default
// namespace.
func (c *Client) Emit(event string) *EventBuilder {
	return c.NamespaceEmit(c.namespace, event)
}

// NamespaceEmit starts building an outgoing event on an explicit namespace.
func (c *Client) NamespaceEmit(namespace, event string) *EventBuilder {
	return &EventBuilder{client: c, namespace: namespace, event: event}
}

// SetEventCallback registers cb for event on the client's default
// namespace.
func (c *Client) SetEventCallback(event string, cb EventCallback) {
	c.SetNamespaceEventCallback(c.namespace, event, cb)
}

// ClearEventCallback removes the callback for event on the default
// namespace.
func (c *Client) ClearEventCallback(event string) {
	c.ClearNamespaceEventCallback(c.namespace, event)
}

// SetNamespaceEventCallback registers cb for event on an explicit
// namespace.
func (c *Client) SetNamespaceEventCallback(namespace, event string, cb EventCallback) {
	c.table.SetEvent(namespace, event, c.wrapEventCallback(cb))
}

// ClearNamespaceEventCallback removes the callback for (namespace, event).
func (c *Client) ClearNamespaceEventCallback(namespace, event string) {
	c.table.ClearEvent(namespace, event)
}

// SetFallbackCallback registers the catch-all callback for the default
// namespace.
func (c *Client) SetFallbackCallback(cb EventCallback) {
	c.SetNamespaceFallbackCallback(c.namespace, cb)
}

// ClearFallbackCallback removes the default namespace's fallback callback.
func (c *Client) ClearFallbackCallback() {
	c.ClearNamespaceFallbackCallback(c.namespace)
}

// SetNamespaceFallbackCallback registers the catch-all callback for an
// explicit namespace.
func (c *Client) SetNamespaceFallbackCallback(namespace string, cb EventCallback) {
	c.table.SetFallback(namespace, c.wrapEventCallback(cb))
}

// ClearNamespaceFallbackCallback removes the fallback callback for an
// explicit namespace.
func (c *Client) ClearNamespaceFallbackCallback(namespace string) {
	c.table.ClearFallback(namespace)
}

// SetConnectCallback registers cb to run when namespace connects.
func (c *Client) SetConnectCallback(namespace string, cb dispatch.ConnectCallback) {
	c.table.SetConnectCallback(namespace, cb)
}

// ClearConnectCallback removes namespace's connect callback.
func (c *Client) ClearConnectCallback(namespace string) {
	c.table.ClearConnectCallback(namespace)
}

// SetDisconnectCallback registers cb to run when namespace disconnects.
func (c *Client) SetDisconnectCallback(namespace string, cb dispatch.DisconnectCallback) {
	c.table.SetDisconnectCallback(namespace, cb)
}

// ClearDisconnectCallback removes namespace's disconnect callback.
func (c *Client) ClearDisconnectCallback(namespace string) {
	c.table.ClearDisconnectCallback(namespace)
}

func (c *Client) wrapEventCallback(cb EventCallback) dispatch.EventCallback {
	return func(args *dispatch.Args, ack *dispatch.AckHandle) {
		var ab *AckBuilder
		if ack != nil {
			ab = &AckBuilder{client: c, namespace: ack.Namespace, id: ack.ID}
		}
		cb(args, ab)
	}
}

// Close shuts the client down: it signals the driver loop to stop
// accepting outbound work, send a transport close frame, and drain until
// the peer ends the stream. Close is idempotent-safe to call once; a
// second call reports ErrAlreadyClosed.
func (c *Client) Close() error {
	closed := false
	c.closeOnce.Do(func() {
		closed = true
		close(c.closeCh)
	})
	if !closed {
		return ErrAlreadyClosed
	}
	<-c.doneCh
	return nil
}

// Err returns the error that ended the driver loop, if any. It is nil
// while the client is still running or if it closed cleanly.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SID returns the session id the server assigned during the handshake.
func (c *Client) SID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

// PendingAckCount reports the number of outstanding ack callbacks, for
// status/debug reporting.
func (c *Client) PendingAckCount() int {
	return c.table.PendingAckCount()
}

// TraceDump returns the current frame tracer's contents msgpack-encoded.
// If tracing was not enabled via WithFrameTrace, the dump is an empty
// msgpack array.
func (c *Client) TraceDump() ([]byte, error) {
	return c.tracer.Dump()
}

func (c *Client) enqueue(header string, attachments [][]byte) error {
	batch := make([]outFrame, 0, 1+len(attachments))
	batch = append(batch, outFrame{isText: true, data: []byte(header)})
	for _, a := range attachments {
		batch = append(batch, outFrame{isText: false, data: engine.EncodeBinary(a)})
	}
	select {
	case c.outbound <- batch:
		return nil
	case <-c.doneCh:
		return c.Err()
	}
}

func (c *Client) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *Client) recordOpen(open engine.OpenData) {
	c.mu.Lock()
	c.sid = open.Sid
	c.pingInterval = time.Duration(open.PingInterval) * time.Millisecond
	c.pingTimeout = time.Duration(open.PingTimeout) * time.Millisecond
	c.mu.Unlock()

	c.openOnce.Do(func() { close(c.openCh) })
}

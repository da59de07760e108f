package socketio

import (
	"log/slog"
	"time"

	"github.com/sadewadee/socketio-client/internal/trace"
)

type options struct {
	namespace        string
	dialer           Dialer
	spawner          Spawner
	logger           *slog.Logger
	handshakeTimeout time.Duration
	traceCapacity    int
}

func defaultOptions() *options {
	return &options{
		namespace:        "/",
		dialer:           defaultDialer{},
		spawner:          defaultSpawner{},
		logger:           slog.Default(),
		handshakeTimeout: 10 * time.Second,
	}
}

// Option configures a Connect or FromTransport call.
type Option func(*options)

// WithNamespace selects the namespace to connect as; the default is "/".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithDialer overrides the Dialer used to establish the transport. Mostly
// useful for tests, which can supply an in-memory Transport.
func WithDialer(d Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithSpawner overrides how the driver-loop task is launched.
func WithSpawner(s Spawner) Option {
	return func(o *options) { o.spawner = s }
}

// WithLogger overrides the structured logger used for library-internal
// diagnostics. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHandshakeTimeout overrides how long Connect waits for the engine
// Open packet before failing with a TimeoutError. The default is 10s.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *options) { o.handshakeTimeout = d }
}

// WithFrameTrace enables the optional frame tracer, retaining the most
// recent capacity inbound/outbound frames for later inspection via
// Client.TraceDump. Disabled (capacity 0) by default.
func WithFrameTrace(capacity int) Option {
	return func(o *options) { o.traceCapacity = capacity }
}

func (o *options) newTracer() *trace.Tracer {
	return trace.New(o.traceCapacity)
}

// Package socketio is a Socket.IO (protocol v4, EIO=4) client built
// directly on a WebSocket transport: no HTTP long-polling, no automatic
// reconnection, no v2 wire compatibility, and no server-side support. It
// connects, emits events with optional binary arguments and ack callbacks,
// dispatches inbound events to registered handlers, and tracks the
// engine's keepalive timing to surface a timeout if the server goes
// quiet.
package socketio

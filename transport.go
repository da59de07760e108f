package socketio

import (
	"context"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"
)

// Frame is one inbound transport frame: a WebSocket text or binary
// message, paired with the engine decoder's expectation of which.
type Frame struct {
	IsText bool
	Data   []byte
}

// Stream is the read half of a split transport connection: successive
// inbound frames, terminated by io.EOF-shaped end-of-stream (Next returning
// ok=false with a nil error) or a transport error.
type Stream interface {
	// Next blocks for the next inbound frame. ok is false with a nil
	// error when the peer closed the stream cleanly.
	Next(ctx context.Context) (frame Frame, ok bool, err error)
}

// Sink is the write half of a split transport connection.
type Sink interface {
	// WriteText writes one WebSocket text frame.
	WriteText(data []byte) error
	// WriteBinary writes one WebSocket binary frame.
	WriteBinary(data []byte) error
	// Close sends a WebSocket close frame and releases the connection.
	Close() error
}

// Transport is the external collaborator that owns a connected transport's
// split read/write halves, generalizing the WSConn interface seen in the
// example pack's Socket.IO client (a single full-duplex connection wrapped
// so it can be split into independently-owned stream/sink without the
// driver loop needing to know it's a *websocket.Conn).
type Transport interface {
	Stream() Stream
	Sink() Sink
}

// Dialer is the external collaborator responsible for establishing a
// Transport given a dial URL, generalizing WSDialer from the example pack.
// The default implementation wraps gorilla/websocket.Dialer.
type Dialer interface {
	Dial(ctx context.Context, dialURL string) (Transport, error)
}

// Spawner runs a function on its own goroutine/task. Connect uses it to
// launch the driver loop, so callers that manage their own goroutine pool
// (or want to reject spawns past some limit) can supply their own.
type Spawner interface {
	Spawn(fn func())
}

// defaultSpawner runs fn on a plain goroutine.
type defaultSpawner struct{}

func (defaultSpawner) Spawn(fn func()) { go fn() }

// gorillaTransport adapts a *websocket.Conn to Transport/Stream/Sink.
type gorillaTransport struct {
	conn *gorillaws.Conn
}

func (t *gorillaTransport) Stream() Stream { return (*gorillaStream)(t) }
func (t *gorillaTransport) Sink() Sink     { return (*gorillaSink)(t) }

type gorillaStream gorillaTransport

func (s *gorillaStream) Next(ctx context.Context) (Frame, bool, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.conn.SetReadDeadline(deadline)
	}
	msgType, data, err := s.conn.ReadMessage()
	if err != nil {
		if gorillaws.IsCloseError(err, gorillaws.CloseNormalClosure, gorillaws.CloseGoingAway) {
			return Frame{}, false, nil
		}
		return Frame{}, false, &TransportError{Err: err}
	}
	return Frame{IsText: msgType == gorillaws.TextMessage, Data: data}, true, nil
}

type gorillaSink gorillaTransport

func (s *gorillaSink) WriteText(data []byte) error {
	if err := s.conn.WriteMessage(gorillaws.TextMessage, data); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func (s *gorillaSink) WriteBinary(data []byte) error {
	if err := s.conn.WriteMessage(gorillaws.BinaryMessage, data); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func (s *gorillaSink) Close() error {
	deadline := time.Now().Add(2 * time.Second)
	_ = s.conn.WriteControl(gorillaws.CloseMessage,
		gorillaws.FormatCloseMessage(gorillaws.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}

// defaultDialer dials with gorilla/websocket's default dialer.
type defaultDialer struct{}

func (defaultDialer) Dial(ctx context.Context, dialURL string) (Transport, error) {
	dialer := gorillaws.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, dialURL, http.Header{})
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return &gorillaTransport{conn: conn}, nil
}

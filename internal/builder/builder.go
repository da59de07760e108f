// Package builder constructs outgoing Socket.IO packets: a text header
// followed, in binary mode, by a side-band list of attachment frames that
// must travel immediately after the header with nothing interleaved.
package builder

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sadewadee/socketio-client/internal/sio"
	"github.com/sadewadee/socketio-client/internal/sioarg"
)

// Kind enumerates the two packet shapes a builder can construct. Connect
// and Disconnect packets never carry arguments and are emitted through the
// Connect/Disconnect helpers instead.
type Kind int

const (
	KindEvent Kind = iota
	KindAck
)

// Frames is the contiguous group of WebSocket frames produced by Finish: a
// text header followed by zero or more binary attachments. The caller must
// write them to the transport in order with nothing else interleaved.
type Frames struct {
	Header      string
	Attachments [][]byte
}

// Builder accumulates a packet's JSON argument array and, in binary mode,
// its side-band attachments, and renders the final header text on Finish.
type Builder struct {
	kind      Kind
	namespace string
	id        *uint64
	binary    bool

	argsBuf strings.Builder
	first   bool
	nArgs   int

	ser *sioarg.Serializer
}

// New starts a builder for an Event or Ack packet. namespace "" is treated
// as the default namespace "/". id is nil for an Event with no ack
// requested, or a pointer to the ack id otherwise.
func New(kind Kind, namespace string, id *uint64, binary bool) *Builder {
	if namespace == "" {
		namespace = "/"
	}
	b := &Builder{
		kind:      kind,
		namespace: namespace,
		id:        id,
		binary:    binary,
		first:     true,
	}
	if binary {
		b.ser = sioarg.NewSerializer()
	}
	return b
}

// NewEvent is a convenience constructor mirroring the public emit path: the
// event name is written as the builder's first argument.
func NewEvent(namespace string, event string, id *uint64, binary bool) (*Builder, error) {
	b := New(KindEvent, namespace, id, binary)
	if err := b.Arg(event); err != nil {
		return nil, err
	}
	return b, nil
}

// NewAck starts a builder for an outgoing ack, bound to the id of the event
// that requested it.
func NewAck(namespace string, id uint64, binary bool) *Builder {
	return New(KindAck, namespace, &id, binary)
}

// Arg appends one JSON-encodable argument. In binary mode, byte-typed
// leaves reachable from v are extracted into the attachment list and
// replaced with placeholder objects; see internal/sioarg for the exact
// rules. On error the builder's internal buffers are unaffected: a failed
// Arg call can be retried or the builder discarded.
func (b *Builder) Arg(v interface{}) error {
	raw, err := b.serializeArg(v)
	if err != nil {
		return err
	}

	if !b.first {
		b.argsBuf.WriteByte(',')
	}
	b.argsBuf.WriteString(raw)
	b.first = false
	b.nArgs++
	return nil
}

func (b *Builder) serializeArg(v interface{}) (string, error) {
	if b.binary {
		return b.ser.SerializeArg(v)
	}
	return jsonEncodeArg(v)
}

// Finish renders the header text and, in binary mode, attaches the
// accumulated side-band attachments, substituting the final count into the
// header.
func (b *Builder) Finish() Frames {
	protoKind := b.protocolKind()

	var header strings.Builder
	header.WriteByte('4')
	header.WriteByte(protocolDigit(protoKind))

	var attachments [][]byte
	if b.binary {
		attachments = b.ser.Attachments()
		header.WriteString(strconv.Itoa(len(attachments)))
		header.WriteByte('-')
	}

	if b.namespace != "/" {
		header.WriteString(b.namespace)
		header.WriteByte(',')
	}

	if b.id != nil {
		header.WriteString(strconv.FormatUint(*b.id, 10))
	}

	if b.nArgs > 0 {
		header.WriteByte('[')
		header.WriteString(b.argsBuf.String())
		header.WriteByte(']')
	}

	return Frames{Header: header.String(), Attachments: attachments}
}

func (b *Builder) protocolKind() sio.ProtocolKind {
	switch {
	case b.kind == KindEvent && b.binary:
		return sio.ProtocolBinaryEvent
	case b.kind == KindEvent:
		return sio.ProtocolEvent
	case b.kind == KindAck && b.binary:
		return sio.ProtocolBinaryAck
	default:
		return sio.ProtocolAck
	}
}

// protocolDigit maps a ProtocolKind to its wire digit, per the table in
// spec section 6 (0 Connect, 1 Disconnect, 2 Event, 3 Ack, 5 BinaryEvent, 6
// BinaryAck — note the gap at 4, which the protocol never assigns).
func protocolDigit(k sio.ProtocolKind) byte {
	switch k {
	case sio.ProtocolConnect:
		return '0'
	case sio.ProtocolDisconnect:
		return '1'
	case sio.ProtocolEvent:
		return '2'
	case sio.ProtocolAck:
		return '3'
	case sio.ProtocolBinaryEvent:
		return '5'
	case sio.ProtocolBinaryAck:
		return '6'
	default:
		return '?'
	}
}

// Connect renders the header for a namespace Connect packet, e.g. "40/nsp,".
func Connect(namespace string) string {
	if namespace == "" || namespace == "/" {
		return "40"
	}
	return "40" + namespace + ","
}

// Disconnect renders the header for a namespace Disconnect packet.
func Disconnect(namespace string) string {
	if namespace == "" || namespace == "/" {
		return "41"
	}
	return "41" + namespace + ","
}

func jsonEncodeArg(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("builder: encoding argument: %w", err)
	}
	return string(raw), nil
}

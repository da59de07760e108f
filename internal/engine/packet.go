// Package engine implements the Engine.IO (EIO=4) framing layer: the
// state machine that turns WebSocket text/binary frames into typed engine
// packets and back.
package engine

import "fmt"

// Kind identifies the kind of an Engine.IO packet.
type Kind int

const (
	KindOpen Kind = iota
	KindClose
	KindPing
	KindPong
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("engine.Kind(%d)", int(k))
	}
}

// OpenData is the payload of an Open packet, the handshake the server
// sends as its first message.
type OpenData struct {
	Sid          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

// MessagePayload is the body of a Message packet: either text or binary,
// never both.
type MessagePayload struct {
	Text   string
	Binary []byte
	IsText bool
}

// Packet is a decoded Engine.IO packet. Only the field matching Kind is
// meaningful.
type Packet struct {
	Kind    Kind
	Open    OpenData
	Message MessagePayload
}

// Header bytes for the Engine.IO text framing, per spec section 6.
const (
	headerOpen    byte = '0'
	headerClose   byte = '1'
	headerPing    byte = '2'
	headerPong    byte = '3'
	headerMessage byte = '4'

	// BinaryMessageLeadByte is the leading byte of a binary message
	// carrier frame.
	BinaryMessageLeadByte byte = 0x04
)

// Package sio parses the Socket.IO packet header mini-language out of an
// Engine.IO message, and reassembles binary packets from their trailing
// attachment frames.
package sio

import "fmt"

// ProtocolKind is the raw wire kind, before binary-event/binary-ack
// collapse into Event/Ack once attachments are attached.
type ProtocolKind int

const (
	ProtocolConnect ProtocolKind = iota
	ProtocolDisconnect
	ProtocolEvent
	ProtocolAck
	ProtocolBinaryEvent
	ProtocolBinaryAck
)

func (k ProtocolKind) String() string {
	switch k {
	case ProtocolConnect:
		return "connect"
	case ProtocolDisconnect:
		return "disconnect"
	case ProtocolEvent:
		return "event"
	case ProtocolAck:
		return "ack"
	case ProtocolBinaryEvent:
		return "binary-event"
	case ProtocolBinaryAck:
		return "binary-ack"
	default:
		return fmt.Sprintf("sio.ProtocolKind(%d)", int(k))
	}
}

// Kind is the post-collapse packet kind delivered to dispatch: binary
// event/ack packets present as Event/Ack once their attachments have
// arrived.
type Kind int

const (
	KindConnect Kind = iota
	KindDisconnect
	KindEvent
	KindAck
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindDisconnect:
		return "disconnect"
	case KindEvent:
		return "event"
	case KindAck:
		return "ack"
	default:
		return fmt.Sprintf("sio.Kind(%d)", int(k))
	}
}

// ArgRange is a sub-range of a Packet's Message string naming one JSON
// array element, so that arguments can be handed out without copying or
// re-parsing their interiors.
type ArgRange struct {
	Start, End int
}

func (r ArgRange) slice(message string) string {
	return message[r.Start:r.End]
}

// Packet is one fully assembled Socket.IO packet.
type Packet struct {
	Kind        Kind
	Namespace   string
	ID          *uint64
	Message     string
	Args        []ArgRange
	Attachments [][]byte
}

// Arg returns the raw JSON text of the i-th argument.
func (p *Packet) Arg(i int) string {
	return p.Args[i].slice(p.Message)
}

// NumArgs returns the number of top-level JSON arguments in the packet.
func (p *Packet) NumArgs() int {
	return len(p.Args)
}

const defaultNamespace = "/"

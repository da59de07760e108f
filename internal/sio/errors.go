package sio

import (
	"errors"
	"fmt"
)

// Sentinel and structured errors for the Socket.IO packet layer, matching
// spec section 7's SocketError taxonomy.
var (
	ErrNonAttachmentBinary  = errors.New("sio: binary engine message is not a valid packet header")
	ErrTextAttachment       = errors.New("sio: text message received while awaiting binary attachments")
	ErrInvalidMessage       = errors.New("sio: malformed packet header")
	ErrInvalidDataJSON      = errors.New("sio: args are not a valid JSON array")
	ErrUnexpectedAttachment = errors.New("sio: attachment received with no pending partial packet")
)

// InvalidExtraDataError reports a kind that carries data its grammar
// forbids (e.g. Connect/Disconnect with args or an id).
type InvalidExtraDataError struct {
	Kind ProtocolKind
}

func (e *InvalidExtraDataError) Error() string {
	return fmt.Sprintf("sio: packet kind %v carries data it must not", e.Kind)
}

// MissingDataError reports a kind missing data its grammar requires
// (e.g. Ack without an id, Event without args).
type MissingDataError struct {
	Kind ProtocolKind
	What string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("sio: packet kind %v is missing required %s", e.Kind, e.What)
}

// InvalidAttachmentCountError reports a mismatch between the attachment
// count declared in the header and the attachments actually collected.
type InvalidAttachmentCountError struct {
	Expected int
	Actual   int
}

func (e *InvalidAttachmentCountError) Error() string {
	return fmt.Sprintf("sio: expected %d attachments, got %d", e.Expected, e.Actual)
}

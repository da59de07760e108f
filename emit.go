package socketio

import (
	"github.com/sadewadee/socketio-client/internal/builder"
	"github.com/sadewadee/socketio-client/internal/dispatch"
)

// EventBuilder accumulates an outgoing event's arguments before sending it
// as a single batch of frames. Obtain one from Client.Emit or
// Client.NamespaceEmit; its chained methods each return the same builder.
type EventBuilder struct {
	client    *Client
	namespace string
	event     string
	binary    bool
	args      []interface{}
	ack       AckCallback
}

// Binary marks the event as carrying binary arguments: byte-typed leaves
// in later Arg calls are extracted into side-band attachment frames
// instead of being JSON-encoded inline.
func (b *EventBuilder) Binary(binary bool) *EventBuilder {
	b.binary = binary
	return b
}

// Arg appends one argument, in call order.
func (b *EventBuilder) Arg(v interface{}) *EventBuilder {
	b.args = append(b.args, v)
	return b
}

// Callback registers a one-shot ack handler for this event's reply. Send
// allocates a fresh ack id scoped to this builder's namespace and
// registers cb against it before the frames are written.
func (b *EventBuilder) Callback(cb AckCallback) *EventBuilder {
	b.ack = cb
	return b
}

// Send renders and writes the event to the outbound queue.
func (b *EventBuilder) Send() error {
	var id *uint64
	if b.ack != nil {
		next := b.client.table.NextAckID(b.namespace)
		id = &next
	}

	built, err := builder.NewEvent(b.namespace, b.event, id, b.binary)
	if err != nil {
		return err
	}
	for _, a := range b.args {
		if err := built.Arg(a); err != nil {
			return err
		}
	}
	frames := built.Finish()

	if b.ack != nil {
		cb := b.ack
		b.client.table.SetAck(b.namespace, *id, func(args *dispatch.Args) { cb(args) })
	}

	return b.client.enqueue(frames.Header, frames.Attachments)
}

// AckBuilder replies to an inbound event that requested an ack, handed to
// an EventCallback when the packet carried an id.
type AckBuilder struct {
	client    *Client
	namespace string
	id        uint64
	binary    bool
	args      []interface{}
}

// Binary marks the ack reply as carrying binary arguments.
func (b *AckBuilder) Binary(binary bool) *AckBuilder {
	b.binary = binary
	return b
}

// Arg appends one reply argument, in call order.
func (b *AckBuilder) Arg(v interface{}) *AckBuilder {
	b.args = append(b.args, v)
	return b
}

// Send renders and writes the ack reply to the outbound queue.
func (b *AckBuilder) Send() error {
	built := builder.NewAck(b.namespace, b.id, b.binary)
	for _, a := range b.args {
		if err := built.Arg(a); err != nil {
			return err
		}
	}
	frames := built.Finish()
	return b.client.enqueue(frames.Header, frames.Attachments)
}

package dispatch

import (
	"github.com/sadewadee/socketio-client/internal/sio"
	"github.com/sadewadee/socketio-client/internal/sioarg"
)

// Args is a read-only view over a decoded packet's argument list, borrowing
// its raw JSON text and attachment buffers from the packet for the
// duration of a callback invocation. Typed access materialises owned Go
// values via the placeholder-aware deserialiser; callbacks that need to
// retain data beyond the call must copy what Deserialize/Value produce.
type Args struct {
	pkt    *sio.Packet
	offset int
}

func newArgs(pkt *sio.Packet, offset int) *Args {
	return &Args{pkt: pkt, offset: offset}
}

// NumArgs reports how many arguments are visible through this view.
func (a *Args) NumArgs() int {
	n := a.pkt.NumArgs() - a.offset
	if n < 0 {
		return 0
	}
	return n
}

// Raw returns the raw JSON text of argument i, without resolving
// placeholders.
func (a *Args) Raw(i int) string {
	return a.pkt.Arg(i + a.offset)
}

// Deserialize decodes argument i into target, resolving any reachable
// placeholder to its attachment bytes.
func (a *Args) Deserialize(i int, target interface{}) error {
	return sioarg.Deserialize(a.Raw(i), a.pkt.Attachments, target)
}

// Value decodes argument i into a generic JSON value, resolving
// placeholders to []byte.
func (a *Args) Value(i int) (interface{}, error) {
	return sioarg.ToJSONValue(a.Raw(i), a.pkt.Attachments)
}

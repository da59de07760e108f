// Package trace implements an optional frame tracer: a bounded ring buffer
// of inbound/outbound engine frames that can be dumped as msgpack records
// for offline debugging or replay of a connection. It never participates
// in the Socket.IO wire format itself (which stays JSON text/binary per the
// engine and socket codecs); it is purely an observability side channel.
package trace

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Direction names which side of the connection produced a frame.
type Direction uint8

const (
	DirectionInbound Direction = iota
	DirectionOutbound
)

func (d Direction) String() string {
	if d == DirectionOutbound {
		return "out"
	}
	return "in"
}

// Record is one traced frame, as captured and as it will round-trip
// through msgpack for a dump.
type Record struct {
	Seq       uint64    `msgpack:"seq"`
	Direction Direction `msgpack:"dir"`
	IsText    bool      `msgpack:"is_text"`
	Data      []byte    `msgpack:"data"`
}

// Tracer is a fixed-capacity ring buffer of Records, safe for concurrent
// use by the driver loop's inbound and outbound paths. A zero-capacity
// Tracer (the default returned by New(0)) records nothing and Record is a
// no-op, so call sites can hold a Tracer unconditionally and only pay for
// it when enabled.
type Tracer struct {
	mu       sync.Mutex
	capacity int
	seq      uint64
	buf      []Record
}

// New returns a Tracer that retains the most recent capacity frames.
// capacity <= 0 disables tracing entirely.
func New(capacity int) *Tracer {
	return &Tracer{capacity: capacity}
}

// Record appends a frame observation. When the buffer is full, the oldest
// record is dropped.
func (t *Tracer) Record(dir Direction, isText bool, data []byte) {
	if t == nil || t.capacity <= 0 {
		return
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	rec := Record{Seq: t.seq, Direction: dir, IsText: isText, Data: cp}
	if len(t.buf) < t.capacity {
		t.buf = append(t.buf, rec)
		return
	}
	copy(t.buf, t.buf[1:])
	t.buf[len(t.buf)-1] = rec
}

// Snapshot returns a copy of the currently retained records, oldest first.
func (t *Tracer) Snapshot() []Record {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.buf))
	copy(out, t.buf)
	return out
}

// Dump encodes the current snapshot as a single msgpack array, suitable
// for writing to a file for later replay or inspection.
func (t *Tracer) Dump() ([]byte, error) {
	return msgpack.Marshal(t.Snapshot())
}

// Load decodes a msgpack dump produced by Dump back into a slice of
// Records, for tooling that replays a captured session.
func Load(data []byte) ([]Record, error) {
	var recs []Record
	if err := msgpack.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

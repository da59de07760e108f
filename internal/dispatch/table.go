// Package dispatch holds the per-namespace callback table and the routing
// of a decoded packet to the registered event, ack, connect, or disconnect
// callback.
package dispatch

import (
	"sync"
	"sync/atomic"
)

// AckHandle identifies the namespace and id an event callback can reply to
// with an ack. It carries no behaviour of its own: the root package turns
// it into a chainable ack builder bound to the live connection, keeping
// this package free of any dependency on the transport or driver loop.
type AckHandle struct {
	Namespace string
	ID        uint64
}

// EventCallback handles a dispatched Event packet. ack is nil unless the
// incoming packet carried an id.
type EventCallback func(args *Args, ack *AckHandle)

// AckCallback handles a dispatched Ack packet. It is one-shot: once taken
// from the table for a given id it cannot be invoked again.
type AckCallback func(args *Args)

// ConnectCallback and DisconnectCallback handle a namespace's Connect and
// Disconnect packets respectively.
type ConnectCallback func(namespace string)
type DisconnectCallback func(namespace string)

type namespaceEntry struct {
	fallback     EventCallback
	events       map[string]EventCallback
	acks         map[uint64]AckCallback
	onConnect    ConnectCallback
	onDisconnect DisconnectCallback
	nextAckID    atomic.Uint64
}

func newNamespaceEntry() *namespaceEntry {
	return &namespaceEntry{
		events: make(map[string]EventCallback),
		acks:   make(map[uint64]AckCallback),
	}
}

// CallbackTable maps namespace to its registered callbacks, behind a single
// mutex shared across all namespaces. Callers must not hold on to the lock
// across a callback invocation: every accessor here copies what it needs
// and releases the lock before returning.
type CallbackTable struct {
	mu         sync.Mutex
	namespaces map[string]*namespaceEntry
}

// NewCallbackTable returns an empty table.
func NewCallbackTable() *CallbackTable {
	return &CallbackTable{namespaces: make(map[string]*namespaceEntry)}
}

func (t *CallbackTable) entry(ns string) *namespaceEntry {
	e, ok := t.namespaces[ns]
	if !ok {
		e = newNamespaceEntry()
		t.namespaces[ns] = e
	}
	return e
}

// SetEvent registers the callback invoked for (namespace, event).
func (t *CallbackTable) SetEvent(ns, event string, cb EventCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(ns).events[event] = cb
}

// ClearEvent removes the callback for (namespace, event), if any.
func (t *CallbackTable) ClearEvent(ns, event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.namespaces[ns]; ok {
		delete(e.events, event)
	}
}

// SetFallback registers the namespace-wide callback invoked for events with
// no specific registration.
func (t *CallbackTable) SetFallback(ns string, cb EventCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(ns).fallback = cb
}

// ClearFallback removes the namespace's fallback callback, if any.
func (t *CallbackTable) ClearFallback(ns string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.namespaces[ns]; ok {
		e.fallback = nil
	}
}

// SetConnectCallback registers the callback invoked when a namespace
// connects.
func (t *CallbackTable) SetConnectCallback(ns string, cb ConnectCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(ns).onConnect = cb
}

// ClearConnectCallback removes the namespace's connect callback, if any.
func (t *CallbackTable) ClearConnectCallback(ns string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.namespaces[ns]; ok {
		e.onConnect = nil
	}
}

// SetDisconnectCallback registers the callback invoked when a namespace
// disconnects.
func (t *CallbackTable) SetDisconnectCallback(ns string, cb DisconnectCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(ns).onDisconnect = cb
}

// ClearDisconnectCallback removes the namespace's disconnect callback, if
// any.
func (t *CallbackTable) ClearDisconnectCallback(ns string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.namespaces[ns]; ok {
		e.onDisconnect = nil
	}
}

// SetAck registers a one-shot callback for an outstanding ack id, invoked
// by the emit builder when the user attaches an ack callback to an
// outgoing event.
func (t *CallbackTable) SetAck(ns string, id uint64, cb AckCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(ns).acks[id] = cb
}

// TakeAck removes and returns the callback registered for (namespace, id),
// so a second Ack carrying the same id finds nothing and is reported as
// unexpected.
func (t *CallbackTable) TakeAck(ns string, id uint64) (AckCallback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.namespaces[ns]
	if !ok {
		return nil, false
	}
	cb, ok := e.acks[id]
	if ok {
		delete(e.acks, id)
	}
	return cb, ok
}

// GetEvent returns the callback registered for (namespace, event), falling
// back to the namespace's fallback callback if no specific one is
// registered.
func (t *CallbackTable) GetEvent(ns, event string) (EventCallback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.namespaces[ns]
	if !ok {
		return nil, false
	}
	if cb, ok := e.events[event]; ok {
		return cb, true
	}
	if e.fallback != nil {
		return e.fallback, true
	}
	return nil, false
}

// connectCallback and disconnectCallback return the namespace's registered
// callbacks, if any, without removing them (they are repeatable).
func (t *CallbackTable) connectCallback(ns string) (ConnectCallback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.namespaces[ns]
	if !ok || e.onConnect == nil {
		return nil, false
	}
	return e.onConnect, true
}

func (t *CallbackTable) disconnectCallback(ns string) (DisconnectCallback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.namespaces[ns]
	if !ok || e.onDisconnect == nil {
		return nil, false
	}
	return e.onDisconnect, true
}

// PendingAckCount returns the total number of outstanding ack callbacks
// across every namespace, for status/debug reporting.
func (t *CallbackTable) PendingAckCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.namespaces {
		n += len(e.acks)
	}
	return n
}

// NextAckID returns the next ack id for namespace ns, scoped to that
// namespace alone: every namespace keeps its own counter, so ids handed
// out on different namespaces are independent and never collide.
func (t *CallbackTable) NextAckID(ns string) uint64 {
	t.mu.Lock()
	e := t.entry(ns)
	t.mu.Unlock()
	return e.nextAckID.Add(1)
}

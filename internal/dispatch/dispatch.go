package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/sadewadee/socketio-client/internal/sio"
)

// Dispatch routes a decoded packet to the registered callback in table,
// logging connect/disconnect traffic and invoking the connect/disconnect
// extension callbacks when registered. It never holds table's lock while
// invoking a callback, so a callback is free to call back into the client
// (e.g. to emit) without deadlocking.
func Dispatch(table *CallbackTable, pkt *sio.Packet, logger *slog.Logger) error {
	switch pkt.Kind {
	case sio.KindConnect:
		logger.Debug("namespace connected", "namespace", pkt.Namespace)
		if cb, ok := table.connectCallback(pkt.Namespace); ok {
			safeInvoke(logger, "connect", func() { cb(pkt.Namespace) })
		}
		return nil

	case sio.KindDisconnect:
		logger.Debug("namespace disconnected", "namespace", pkt.Namespace)
		if cb, ok := table.disconnectCallback(pkt.Namespace); ok {
			safeInvoke(logger, "disconnect", func() { cb(pkt.Namespace) })
		}
		return nil

	case sio.KindEvent:
		return dispatchEvent(table, pkt, logger)

	case sio.KindAck:
		return dispatchAck(table, pkt)

	default:
		return fmt.Errorf("dispatch: unhandled packet kind %v", pkt.Kind)
	}
}

func dispatchEvent(table *CallbackTable, pkt *sio.Packet, logger *slog.Logger) error {
	if pkt.NumArgs() == 0 {
		return ErrEventNoArgs
	}

	var name string
	if err := deserializeEventName(pkt, &name); err != nil {
		return err
	}

	var ack *AckHandle
	if pkt.ID != nil {
		ack = &AckHandle{Namespace: pkt.Namespace, ID: *pkt.ID}
	}

	cb, ok := table.GetEvent(pkt.Namespace, name)
	if !ok {
		logger.Debug("no handler for event", "namespace", pkt.Namespace, "event", name)
		return nil
	}

	args := newArgs(pkt, 1) // event-name argument excluded from the callback view
	safeInvoke(logger, "event:"+name, func() { cb(args, ack) })
	return nil
}

func dispatchAck(table *CallbackTable, pkt *sio.Packet) error {
	if pkt.ID == nil {
		return &UnexpectedAckError{Namespace: pkt.Namespace}
	}
	cb, ok := table.TakeAck(pkt.Namespace, *pkt.ID)
	if !ok {
		return &UnexpectedAckError{Namespace: pkt.Namespace, ID: *pkt.ID}
	}
	args := newArgs(pkt, 0)
	cb(args)
	return nil
}

func deserializeEventName(pkt *sio.Packet, name *string) error {
	a := newArgs(pkt, 0)
	return a.Deserialize(0, name)
}

// safeInvoke runs a user callback and recovers a panic so a misbehaving
// handler cannot bring down the driver loop; the table itself is never
// touched here, so a panicking callback leaves it consistent.
func safeInvoke(logger *slog.Logger, label string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("callback panicked", "callback", label, "panic", r)
		}
	}()
	fn()
}

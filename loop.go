package socketio

import (
	"context"
	"time"

	"github.com/sadewadee/socketio-client/internal/dispatch"
	"github.com/sadewadee/socketio-client/internal/engine"
	"github.com/sadewadee/socketio-client/internal/sio"
	"github.com/sadewadee/socketio-client/internal/trace"
)

type inboundItem struct {
	frame engine.Frame
	err   error
}

// run is the driver loop: a single cooperative goroutine that owns the
// transport's inbound stream and outbound sink. It races inbound frames,
// outbound batches, the close signal, and (a supplemented addition beyond
// the original four-way select) a keepalive deadline derived from the
// server's declared ping interval/timeout.
func (c *Client) run(stream Stream) {
	defer close(c.doneCh)

	decoder := engine.NewDecoder()
	assembler := sio.NewAssembler()

	inboundCh := make(chan inboundItem, 1)
	pumpCtx, cancelPump := context.WithCancel(context.Background())
	defer cancelPump()
	go pumpInbound(pumpCtx, stream, inboundCh)

	keepalive := time.NewTimer(24 * time.Hour) // replaced once Open is seen
	defer keepalive.Stop()

	for {
		select {
		case item, ok := <-inboundCh:
			if !ok {
				c.setErr(nil)
				return
			}
			if item.err != nil {
				c.setErr(item.err)
				return
			}
			if err := c.handleInbound(decoder, assembler, item.frame, keepalive); err != nil {
				c.setErr(err)
				return
			}

		case batch := <-c.outbound:
			for _, f := range batch {
				if err := c.write(f); err != nil {
					c.setErr(err)
					return
				}
			}

		case <-c.closeCh:
			_ = c.sink.Close()
			cancelPump()
			c.drain(inboundCh)
			c.setErr(nil)
			return

		case <-keepalive.C:
			c.mu.Lock()
			interval, timeout := c.pingInterval, c.pingTimeout
			c.mu.Unlock()
			c.setErr(&KeepaliveTimeoutError{Interval: interval, Timeout: timeout})
			return
		}
	}
}

func pumpInbound(ctx context.Context, stream Stream, out chan<- inboundItem) {
	defer close(out)
	for {
		frame, ok, err := stream.Next(ctx)
		if err != nil {
			out <- inboundItem{err: err}
			return
		}
		if !ok {
			return
		}
		out <- inboundItem{frame: engine.Frame{IsText: frame.IsText, Data: frame.Data}}
	}
}

func (c *Client) handleInbound(decoder *engine.Decoder, assembler *sio.Assembler, frame engine.Frame, keepalive *time.Timer) error {
	c.tracer.Record(trace.DirectionInbound, frame.IsText, frame.Data)

	pkt, err := decoder.Decode(frame)
	if err != nil {
		return err
	}

	switch pkt.Kind {
	case engine.KindOpen:
		c.recordOpen(pkt.Open)
		resetKeepalive(keepalive, time.Duration(pkt.Open.PingInterval)*time.Millisecond+time.Duration(pkt.Open.PingTimeout)*time.Millisecond)
		return nil

	case engine.KindClose:
		c.logger.Debug("engine close received")
		return nil

	case engine.KindPing:
		c.mu.Lock()
		interval, timeout := c.pingInterval, c.pingTimeout
		c.mu.Unlock()
		resetKeepalive(keepalive, interval+timeout)
		return c.sendRaw(true, engine.EncodePong())

	case engine.KindPong:
		return nil

	case engine.KindMessage:
		return c.handleMessage(assembler, pkt.Message)

	default:
		return nil
	}
}

func (c *Client) handleMessage(assembler *sio.Assembler, msg engine.MessagePayload) error {
	if msg.IsText {
		if err := assembler.AddText(); err != nil {
			return err
		}
		result, err := sio.Parse(msg.Text)
		if err != nil {
			return err
		}
		if result.Partial != nil {
			assembler.BeginPartial(result.Partial)
			return nil
		}
		return dispatch.Dispatch(c.table, result.Packet, c.logger)
	}

	pkt, err := assembler.AddAttachment(msg.Binary)
	if err != nil {
		return err
	}
	if pkt == nil {
		return nil
	}
	return dispatch.Dispatch(c.table, pkt, c.logger)
}

func (c *Client) write(f outFrame) error {
	c.tracer.Record(trace.DirectionOutbound, f.isText, f.data)
	if f.isText {
		return c.sink.WriteText(f.data)
	}
	return c.sink.WriteBinary(f.data)
}

func (c *Client) sendRaw(isText bool, data []byte) error {
	return c.write(outFrame{isText: isText, data: data})
}

// drain keeps reading inboundCh until the peer closes the stream (the
// channel closes) or an error arrives, discarding application packets:
// Close has already been decided, so there is nothing left to dispatch.
func (c *Client) drain(inboundCh <-chan inboundItem) {
	for item := range inboundCh {
		if item.err != nil {
			return
		}
	}
}

func resetKeepalive(t *time.Timer, d time.Duration) {
	if d <= 0 {
		return
	}
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

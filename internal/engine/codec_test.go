package engine

import (
	"errors"
	"testing"
)

func TestDecodeOpenTransitionsToActive(t *testing.T) {
	d := NewDecoder()
	pkt, err := d.Decode(Frame{IsText: true, Data: []byte(`0{"sid":"X","pingInterval":25000,"pingTimeout":5000}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt.Kind != KindOpen {
		t.Fatalf("expected KindOpen, got %v", pkt.Kind)
	}
	if pkt.Open.Sid != "X" || pkt.Open.PingInterval != 25000 || pkt.Open.PingTimeout != 5000 {
		t.Fatalf("unexpected open payload: %+v", pkt.Open)
	}
	if d.State() != StateActive {
		t.Fatalf("expected Active state, got %v", d.State())
	}
}

func TestDecodeSecondOpenFails(t *testing.T) {
	d := NewDecoder()
	if _, err := d.Decode(Frame{IsText: true, Data: []byte(`0{"sid":"X"}`)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := d.Decode(Frame{IsText: true, Data: []byte(`0{"sid":"Y"}`)})
	if !errors.Is(err, ErrSecondOpen) {
		t.Fatalf("expected ErrSecondOpen, got %v", err)
	}
}

func TestDecodeMessageBeforeOpenFails(t *testing.T) {
	d := NewDecoder()
	tests := []byte{headerClose, headerPing, headerPong}
	for _, h := range tests {
		_, err := d.Decode(Frame{IsText: true, Data: []byte{h}})
		if !errors.Is(err, ErrMessageBeforeOpen) {
			t.Fatalf("header %q: expected ErrMessageBeforeOpen, got %v", h, err)
		}
	}
}

func TestDecodeAfterCloseFails(t *testing.T) {
	d := NewDecoder()
	mustOpen(t, d)
	if _, err := d.Decode(Frame{IsText: true, Data: []byte{headerClose}}); err != nil {
		t.Fatalf("unexpected error closing: %v", err)
	}
	if d.State() != StateClosed {
		t.Fatalf("expected Closed state, got %v", d.State())
	}
	_, err := d.Decode(Frame{IsText: true, Data: []byte{headerPing}})
	if !errors.Is(err, ErrMessageAfterClose) {
		t.Fatalf("expected ErrMessageAfterClose, got %v", err)
	}
}

func TestDecodeControlFrameIsWrongMessageType(t *testing.T) {
	d := NewDecoder()
	mustOpen(t, d)
	_, err := d.Decode(Frame{IsControl: true, Data: []byte("ping")})
	if !errors.Is(err, ErrWrongMessageType) {
		t.Fatalf("expected ErrWrongMessageType, got %v", err)
	}
}

func TestDecodeTextMessage(t *testing.T) {
	d := NewDecoder()
	mustOpen(t, d)
	pkt, err := d.Decode(Frame{IsText: true, Data: []byte("42[\"hi\"]")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt.Kind != KindMessage || !pkt.Message.IsText || pkt.Message.Text != "2[\"hi\"]" {
		t.Fatalf("unexpected packet: %+v", pkt)
	}
}

func TestDecodeBinaryMessage(t *testing.T) {
	d := NewDecoder()
	mustOpen(t, d)
	pkt, err := d.Decode(Frame{IsText: false, Data: []byte{BinaryMessageLeadByte, 0xde, 0xad}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt.Kind != KindMessage || pkt.Message.IsText {
		t.Fatalf("unexpected packet: %+v", pkt)
	}
	if string(pkt.Message.Binary) != "\xde\xad" {
		t.Fatalf("unexpected binary payload: %x", pkt.Message.Binary)
	}
}

func TestDecodeBinaryMessageBeforeOpenFails(t *testing.T) {
	d := NewDecoder()
	_, err := d.Decode(Frame{IsText: false, Data: []byte{BinaryMessageLeadByte, 1}})
	if !errors.Is(err, ErrMessageBeforeOpen) {
		t.Fatalf("expected ErrMessageBeforeOpen, got %v", err)
	}
}

func TestDecodeUnknownLeadByte(t *testing.T) {
	d := NewDecoder()
	mustOpen(t, d)
	_, err := d.Decode(Frame{IsText: true, Data: []byte("9nope")})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestEncodeHelpers(t *testing.T) {
	if string(EncodePong()) != "3" {
		t.Fatalf("unexpected pong encoding: %q", EncodePong())
	}
	if string(EncodeMessage("hello")) != "4hello" {
		t.Fatalf("unexpected message encoding: %q", EncodeMessage("hello"))
	}
	got := EncodeBinary([]byte{0xde, 0xad})
	want := []byte{BinaryMessageLeadByte, 0xde, 0xad}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("unexpected binary encoding: %x", got)
	}
}

func mustOpen(t *testing.T, d *Decoder) {
	t.Helper()
	if _, err := d.Decode(Frame{IsText: true, Data: []byte(`0{"sid":"X"}`)}); err != nil {
		t.Fatalf("unexpected error opening: %v", err)
	}
}

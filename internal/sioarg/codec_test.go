package sioarg

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeserializeBytesPlaceholder(t *testing.T) {
	// S4
	var got []byte
	err := Deserialize(`{"_placeholder":true,"num":0}`, [][]byte{{0xde, 0xad, 0xbe, 0xef}}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("unexpected bytes: %x", got)
	}
}

func TestDeserializeNoAttachmentsShortCircuits(t *testing.T) {
	var got map[string]string
	if err := Deserialize(`{"a":"b"}`, nil, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["a"] != "b" {
		t.Fatalf("unexpected map: %+v", got)
	}
}

func TestDeserializePlaceholderIntoStringTarget(t *testing.T) {
	var got string
	err := Deserialize(`{"_placeholder":true,"num":0}`, [][]byte{[]byte("hello")}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected string: %q", got)
	}
}

func TestDeserializePlaceholderIntoSequenceTarget(t *testing.T) {
	var got []int
	err := Deserialize(`{"_placeholder":true,"num":0}`, [][]byte{{1, 2, 3}}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected seq: %v", got)
	}
}

func TestDeserializePlaceholderPassthroughForMapTarget(t *testing.T) {
	// Boundary case: "_placeholder object in a user type not targeting
	// bytes/sequence -> treated as a map of two fields".
	type shape struct {
		Placeholder bool `json:"_placeholder"`
		Num         int  `json:"num"`
	}
	var got shape
	err := Deserialize(`{"_placeholder":true,"num":0}`, [][]byte{{1}}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Placeholder || got.Num != 0 {
		t.Fatalf("unexpected struct: %+v", got)
	}
}

func TestDeserializeNestedPlaceholder(t *testing.T) {
	type wrapper struct {
		Items []struct {
			Data []byte `json:"data"`
		} `json:"items"`
	}
	var got wrapper
	raw := `{"items":[{"data":{"_placeholder":true,"num":0}}]}`
	err := Deserialize(raw, [][]byte{{9, 9}}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 1 || !bytes.Equal(got.Items[0].Data, []byte{9, 9}) {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestDeserializePlaceholderOutOfRange(t *testing.T) {
	var got []byte
	err := Deserialize(`{"_placeholder":true,"num":1}`, [][]byte{{1}}, &got)
	var rangeErr *PlaceholderIndexOutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected PlaceholderIndexOutOfRangeError, got %v", err)
	}
}

func TestDeserializePlaceholderMissingNum(t *testing.T) {
	var got []byte
	err := Deserialize(`{"_placeholder":true}`, [][]byte{{1}}, &got)
	if !errors.Is(err, ErrNoNumInPlaceholder) {
		t.Fatalf("expected ErrNoNumInPlaceholder, got %v", err)
	}
}

func TestToJSONValueReplacesPlaceholder(t *testing.T) {
	v, err := ToJSONValue(`["binary",{"_placeholder":true,"num":0}]`, [][]byte{{1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 2 {
		t.Fatalf("unexpected value: %#v", v)
	}
	b, ok := arr[1].([]byte)
	if !ok || !bytes.Equal(b, []byte{1, 2}) {
		t.Fatalf("unexpected second element: %#v", arr[1])
	}
}

func TestSerializeBytesProducesPlaceholderAndAttachment(t *testing.T) {
	// S6
	s := NewSerializer()
	raw, err := s.SerializeArg([]byte{0xde, 0xad, 0xbe, 0xef})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"_placeholder":true,"num":0}` {
		t.Fatalf("unexpected json: %s", raw)
	}
	if len(s.Attachments()) != 1 || !bytes.Equal(s.Attachments()[0], []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("unexpected attachments: %v", s.Attachments())
	}
}

func TestSerializeEmptyByteSequenceIsLiteralArray(t *testing.T) {
	// S7: empty sequence of bytes -> "[]", no attachment.
	s := NewSerializer()
	raw, err := s.SerializeArg([]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "[]" {
		t.Fatalf("unexpected json: %s", raw)
	}
	if len(s.Attachments()) != 0 {
		t.Fatalf("expected no attachments, got %v", s.Attachments())
	}
}

func TestSerializeHeterogeneousSequenceIsPlainArray(t *testing.T) {
	// S7: [1, "x"] -> JSON [1,"x"], no attachment.
	s := NewSerializer()
	raw, err := s.SerializeArg([]interface{}{1, "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `[1,"x"]` {
		t.Fatalf("unexpected json: %s", raw)
	}
	if len(s.Attachments()) != 0 {
		t.Fatalf("expected no attachments, got %v", s.Attachments())
	}
}

func TestSerializeInterfaceByteSequenceProducesPlaceholder(t *testing.T) {
	// S7: a fully byte-valued interface{} sequence becomes a placeholder.
	s := NewSerializer()
	raw, err := s.SerializeArg([]interface{}{0xde, 0xad, 0xbe, 0xef})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"_placeholder":true,"num":0}` {
		t.Fatalf("unexpected json: %s", raw)
	}
	if !bytes.Equal(s.Attachments()[0], []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("unexpected attachment: %x", s.Attachments()[0])
	}
}

func TestSerializeRollsBackAttachmentsOnError(t *testing.T) {
	s := NewSerializer()
	if _, err := s.SerializeArg([]byte("ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Attachments()) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(s.Attachments()))
	}

	_, err := s.SerializeArg(make(chan int)) // unsupported type
	if err == nil {
		t.Fatalf("expected error serializing a channel")
	}
	if len(s.Attachments()) != 1 {
		t.Fatalf("expected rollback to 1 attachment, got %d", len(s.Attachments()))
	}
}

func TestRoundTripBinaryAtDepth(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Blob []byte `json:"blob"`
	}
	s := NewSerializer()
	raw, err := s.SerializeArg(payload{Name: "x", Blob: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got payload
	if err := Deserialize(raw, s.Attachments(), &got); err != nil {
		t.Fatalf("unexpected error deserializing: %v", err)
	}
	if got.Name != "x" || !bytes.Equal(got.Blob, []byte{1, 2, 3}) {
		t.Fatalf("unexpected round-trip: %+v", got)
	}
}

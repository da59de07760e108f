package sioarg

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Serializer walks an arbitrary Go value to produce Socket.IO argument
// JSON text, extracting byte-typed leaves into a side-band attachment
// list and replacing them in the JSON stream with placeholder objects,
// per spec section 4.6. One Serializer accumulates attachments across
// all the arguments of a single outgoing packet, so placeholder indices
// are assigned in emission order across the whole packet.
type Serializer struct {
	attachments [][]byte
}

// NewSerializer returns an empty serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Attachments returns the binary attachments extracted so far, in the
// order their placeholders were emitted.
func (s *Serializer) Attachments() [][]byte {
	return s.attachments
}

// SerializeArg renders v as JSON text, appending any extracted
// attachments to the serializer's side-band list. On error, the
// attachment list is rolled back to its length before the call, so a
// failed argument never leaves a dangling attachment (spec section 4.7's
// atomicity requirement, implemented at the level that actually owns the
// extraction).
func (s *Serializer) SerializeArg(v interface{}) (string, error) {
	before := len(s.attachments)
	raw, err := s.encode(reflect.ValueOf(v))
	if err != nil {
		s.attachments = s.attachments[:before]
		return "", err
	}
	return raw, nil
}

func (s *Serializer) appendAttachment(data []byte) int {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.attachments = append(s.attachments, cp)
	return len(s.attachments) - 1
}

func (s *Serializer) encode(rv reflect.Value) (string, error) {
	if !rv.IsValid() {
		return "null", nil
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "null", nil
		}
		return s.encode(rv.Elem())

	case reflect.Interface:
		if rv.IsNil() {
			return "null", nil
		}
		return s.encode(rv.Elem())

	case reflect.Slice, reflect.Array:
		return s.encodeSequence(rv)

	case reflect.Map:
		return s.encodeMap(rv)

	case reflect.Struct:
		return s.encodeStruct(rv)

	default:
		if marshaler, ok := rv.Interface().(json.Marshaler); ok {
			raw, err := marshaler.MarshalJSON()
			if err != nil {
				return "", fmt.Errorf("sioarg: marshaling %s: %w", rv.Type(), err)
			}
			return string(raw), nil
		}
		raw, err := json.Marshal(rv.Interface())
		if err != nil {
			return "", fmt.Errorf("sioarg: marshaling %s: %w", rv.Type(), err)
		}
		return string(raw), nil
	}
}

// encodeSequence implements the Bytes/Poisoned heuristic from spec
// section 4.6. A statically byte-typed slice/array ([]byte, [N]byte)
// takes the fast direct path. A statically interface{}-typed sequence
// (the common shape of an arbitrary, loosely-typed user argument) can't
// be told apart from a byte sequence until its elements are inspected,
// so it accumulates single-byte elements until either it ends (emit as
// an attachment, or as a literal "[]" if empty) or a non-byte element is
// seen (flush accumulated elements as normal JSON values and continue in
// passthrough mode). Any other statically-typed sequence is known not to
// be bytes and is encoded as a plain JSON array.
func (s *Serializer) encodeSequence(rv reflect.Value) (string, error) {
	elemKind := rv.Type().Elem().Kind()

	if elemKind == reflect.Uint8 {
		data := sequenceBytes(rv)
		if len(data) == 0 {
			return "[]", nil
		}
		idx := s.appendAttachment(data)
		return PlaceholderJSON(idx), nil
	}

	if elemKind != reflect.Interface {
		return s.encodePlainSequence(rv)
	}

	n := rv.Len()
	bytesSoFar := make([]byte, 0, n)
	poisoned := false
	var flushed []string

	for i := 0; i < n; i++ {
		elem := rv.Index(i)
		if !poisoned {
			if b, ok := byteFromInterface(elem); ok {
				bytesSoFar = append(bytesSoFar, b)
				continue
			}
			poisoned = true
			for _, b := range bytesSoFar {
				flushed = append(flushed, fmt.Sprintf("%d", b))
			}
		}
		encoded, err := s.encode(elem)
		if err != nil {
			return "", err
		}
		flushed = append(flushed, encoded)
	}

	if !poisoned {
		if len(bytesSoFar) == 0 {
			return "[]", nil
		}
		idx := s.appendAttachment(bytesSoFar)
		return PlaceholderJSON(idx), nil
	}

	return "[" + strings.Join(flushed, ",") + "]", nil
}

func (s *Serializer) encodePlainSequence(rv reflect.Value) (string, error) {
	n := rv.Len()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		encoded, err := s.encode(rv.Index(i))
		if err != nil {
			return "", err
		}
		parts[i] = encoded
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func (s *Serializer) encodeMap(rv reflect.Value) (string, error) {
	keys := rv.MapKeys()
	type kv struct {
		key string
		val reflect.Value
	}
	pairs := make([]kv, len(keys))
	for i, k := range keys {
		pairs[i] = kv{key: fmt.Sprint(k.Interface()), val: rv.MapIndex(k)}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		encoded, err := s.encode(p.val)
		if err != nil {
			return "", err
		}
		keyJSON, err := json.Marshal(p.key)
		if err != nil {
			return "", err
		}
		parts[i] = string(keyJSON) + ":" + encoded
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (s *Serializer) encodeStruct(rv reflect.Value) (string, error) {
	t := rv.Type()
	var parts []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name, omitEmpty, skip := structFieldName(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		encoded, err := s.encode(fv)
		if err != nil {
			return "", err
		}
		keyJSON, _ := json.Marshal(name)
		parts = append(parts, string(keyJSON)+":"+encoded)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func structFieldName(f reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = f.Name
	if tag != "" {
		segs := strings.Split(tag, ",")
		if segs[0] != "" {
			name = segs[0]
		}
		for _, opt := range segs[1:] {
			if opt == "omitempty" {
				omitEmpty = true
			}
		}
	}
	return name, omitEmpty, false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func sequenceBytes(rv reflect.Value) []byte {
	if rv.Kind() == reflect.Slice {
		return rv.Bytes()
	}
	out := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(out), rv)
	return out
}

// byteFromInterface reports whether an interface{}-typed element holds a
// value that can stand in for a single byte: an unsigned/signed integer
// or whole-number float in [0,255], or a uint8 directly.
func byteFromInterface(rv reflect.Value) (byte, bool) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Uint8:
		return byte(rv.Uint()), true
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 255 {
			return 0, false
		}
		return byte(u), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 || i > 255 {
			return 0, false
		}
		return byte(i), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f < 0 || f > 255 || f != float64(int64(f)) {
			return 0, false
		}
		return byte(f), true
	default:
		return 0, false
	}
}

package sioarg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// objField is one ordered key/raw-value pair of a JSON object, preserving
// source order so placeholder detection can "peek the first key" the way
// spec section 4.5 describes.
type objField struct {
	key string
	raw json.RawMessage
}

// Deserialize decodes one argument's raw JSON text into target (a
// non-nil pointer), resolving any "_placeholder" object reachable from it
// to the corresponding attachment's bytes when target's shape accepts
// bytes or a byte sequence, and treating it as an ordinary two-field map
// otherwise. With no attachments it short-circuits to a plain
// encoding/json decode, per spec section 4.4.
func Deserialize(raw string, attachments [][]byte, target interface{}) error {
	if len(attachments) == 0 {
		return json.Unmarshal([]byte(raw), target)
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("sioarg: Deserialize target must be a non-nil pointer")
	}
	return decodeInto(rv.Elem(), []byte(raw), attachments)
}

// ToJSONValue decodes one argument's raw JSON text into a generic Go
// value (map[string]interface{}, []interface{}, string, float64, bool,
// nil), resolving placeholders to []byte wherever they occur.
func ToJSONValue(raw string, attachments [][]byte) (interface{}, error) {
	if len(attachments) == 0 {
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return decodeAny(bytes.TrimSpace([]byte(raw)), attachments)
}

func decodeInto(rv reflect.Value, raw []byte, attachments [][]byte) error {
	raw = bytes.TrimSpace(raw)

	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeInto(rv.Elem(), raw, attachments)
	}
	if rv.Kind() == reflect.Interface {
		v, err := decodeAny(raw, attachments)
		if err != nil {
			return err
		}
		if v == nil {
			rv.Set(reflect.Zero(rv.Type()))
		} else {
			rv.Set(reflect.ValueOf(v))
		}
		return nil
	}

	switch {
	case len(raw) > 0 && raw[0] == '{':
		fields, err := scanObjectFields(raw)
		if err != nil {
			return err
		}
		data, isPlaceholder, err := placeholderLookup(fields, attachments)
		if isPlaceholder {
			if err != nil {
				return err
			}
			return assignPlaceholderBytes(rv, data, fields, attachments)
		}
		return decodeObjectFields(rv, fields, attachments)

	case len(raw) > 0 && raw[0] == '[':
		return decodeArrayElements(rv, raw, attachments)

	default:
		if !rv.CanAddr() {
			return fmt.Errorf("sioarg: decode target is not addressable")
		}
		return json.Unmarshal(raw, rv.Addr().Interface())
	}
}

// decodeAny is the untyped counterpart of decodeInto, used for
// ToJSONValue and for any interface{}-typed field or element reached
// during a typed decode.
func decodeAny(raw []byte, attachments [][]byte) (interface{}, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return nil, fmt.Errorf("sioarg: empty JSON value")

	case raw[0] == '{':
		fields, err := scanObjectFields(raw)
		if err != nil {
			return nil, err
		}
		data, isPlaceholder, err := placeholderLookup(fields, attachments)
		if isPlaceholder {
			if err != nil {
				return nil, err
			}
			out := make([]byte, len(data))
			copy(out, data)
			return out, nil
		}
		m := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			v, err := decodeAny(f.raw, attachments)
			if err != nil {
				return nil, err
			}
			m[f.key] = v
		}
		return m, nil

	case raw[0] == '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, err
		}
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			v, err := decodeAny(e, attachments)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	default:
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// scanObjectFields parses a JSON object literal into its ordered
// key/raw-value pairs, using the streaming token API so source key order
// is preserved exactly (encoding/json's map-based Unmarshal would lose
// it).
func scanObjectFields(raw []byte) ([]objField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("sioarg: reading object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("sioarg: expected JSON object")
	}

	var fields []objField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("sioarg: reading object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("sioarg: object key is not a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("sioarg: reading value for key %q: %w", key, err)
		}
		fields = append(fields, objField{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("sioarg: reading object close: %w", err)
	}
	return fields, nil
}

// placeholderLookup peeks the first key of fields; if it is
// "_placeholder" the object is committed to the placeholder
// interpretation (isPlaceholder=true) and its attachment bytes (or an
// error) are returned. Otherwise isPlaceholder is false and the object
// should be decoded as an ordinary map/struct.
func placeholderLookup(fields []objField, attachments [][]byte) (data []byte, isPlaceholder bool, err error) {
	if len(fields) == 0 || fields[0].key != "_placeholder" {
		return nil, false, nil
	}
	if len(fields) < 2 || fields[1].key != "num" {
		return nil, true, ErrNoNumInPlaceholder
	}
	var num uint64
	if err := json.Unmarshal(fields[1].raw, &num); err != nil {
		return nil, true, ErrNoNumInPlaceholder
	}
	if num >= uint64(len(attachments)) {
		return nil, true, &PlaceholderIndexOutOfRangeError{Num: num, Count: len(attachments)}
	}
	return attachments[num], true, nil
}

// assignPlaceholderBytes resolves a placeholder object into rv, per the
// targeted-type table in spec section 4.5: bytes/string targets get the
// raw attachment; sequence targets get one element per byte; anything
// else (struct, map, generic interface handled upstream) falls back to
// decoding the original two-field object as a plain map, so user types
// that intentionally shape {_placeholder, num} round-trip.
func assignPlaceholderBytes(rv reflect.Value, data []byte, fields []objField, attachments [][]byte) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(string(data))
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, len(data))
			copy(out, data)
			rv.SetBytes(out)
			return nil
		}
		seq := reflect.MakeSlice(rv.Type(), len(data), len(data))
		for i, b := range data {
			if err := setByteElement(seq.Index(i), b); err != nil {
				return err
			}
		}
		rv.Set(seq)
		return nil

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			reflect.Copy(rv, reflect.ValueOf(data))
			return nil
		}
		for i := 0; i < rv.Len() && i < len(data); i++ {
			if err := setByteElement(rv.Index(i), data[i]); err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct, reflect.Map:
		return decodeObjectFields(rv, fields, attachments)

	default:
		return decodeObjectFields(rv, fields, attachments)
	}
}

func setByteElement(elemRV reflect.Value, b byte) error {
	switch elemRV.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		elemRV.SetUint(uint64(b))
		return nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		elemRV.SetInt(int64(b))
		return nil
	case reflect.Float32, reflect.Float64:
		elemRV.SetFloat(float64(b))
		return nil
	case reflect.Interface:
		elemRV.Set(reflect.ValueOf(float64(b)))
		return nil
	default:
		return fmt.Errorf("sioarg: cannot place a byte into sequence element kind %s", elemRV.Kind())
	}
}

func decodeObjectFields(rv reflect.Value, fields []objField, attachments [][]byte) error {
	switch rv.Kind() {
	case reflect.Struct:
		t := rv.Type()
		for _, f := range fields {
			idx := findStructField(t, f.key)
			if idx < 0 {
				continue
			}
			if err := decodeInto(rv.Field(idx), f.raw, attachments); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if rv.IsNil() {
			rv.Set(reflect.MakeMap(rv.Type()))
		}
		elemType := rv.Type().Elem()
		for _, f := range fields {
			ev := reflect.New(elemType).Elem()
			if err := decodeInto(ev, f.raw, attachments); err != nil {
				return err
			}
			rv.SetMapIndex(reflect.ValueOf(f.key), ev)
		}
		return nil

	default:
		return fmt.Errorf("sioarg: cannot decode a JSON object into %s", rv.Kind())
	}
}

func decodeArrayElements(rv reflect.Value, raw []byte, attachments [][]byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return fmt.Errorf("sioarg: reading array: %w", err)
	}

	switch rv.Kind() {
	case reflect.Slice:
		seq := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := decodeInto(seq.Index(i), e, attachments); err != nil {
				return err
			}
		}
		rv.Set(seq)
		return nil

	case reflect.Array:
		for i := 0; i < len(elems) && i < rv.Len(); i++ {
			if err := decodeInto(rv.Index(i), elems[i], attachments); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("sioarg: cannot decode a JSON array into %s", rv.Kind())
	}
}

// findStructField resolves a JSON key to a struct field index using the
// same precedence encoding/json uses: an exact `json:"name"` tag match
// first, then a case-insensitive field-name match. Returns -1 if no
// field matches (the key is ignored, the same as encoding/json's default
// behavior for unknown fields).
func findStructField(t reflect.Type, key string) int {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		tag := f.Tag.Get("json")
		name := tag
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			name = tag[:idx]
		}
		if name == "-" {
			continue
		}
		if name == key {
			return i
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		tag := f.Tag.Get("json")
		if tag != "" {
			continue // already checked above
		}
		if strings.EqualFold(f.Name, key) {
			return i
		}
	}
	return -1
}

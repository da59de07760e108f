package sio

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult is the outcome of parsing one Socket.IO text message: either
// a complete Packet (no attachments expected) or a Partial awaiting N
// binary frames.
type ParseResult struct {
	Packet  *Packet
	Partial *Partial
}

// Parse parses the text body of an Engine.IO Message packet according to
// the grammar in spec section 4.2:
//
//	message = kind [attachments-count '-'] [namespace ','] [id] [args]
func Parse(message string) (ParseResult, error) {
	if len(message) == 0 {
		return ParseResult{}, fmt.Errorf("%w: empty message", ErrInvalidMessage)
	}

	protoKind, ok := parseProtocolKind(message[0])
	if !ok {
		return ParseResult{}, fmt.Errorf("%w: unknown kind byte %q", ErrInvalidMessage, message[0])
	}
	rest := message[1:]

	var attachCount int
	var attachPresent bool
	if protoKind == ProtocolBinaryEvent || protoKind == ProtocolBinaryAck {
		n, tail, found, err := parseAttachmentCount(rest)
		if err != nil {
			return ParseResult{}, err
		}
		if !found {
			return ParseResult{}, &MissingDataError{Kind: protoKind, What: "attachment count"}
		}
		attachCount, attachPresent, rest = n, true, tail
	}

	namespace, rest := parseNamespace(rest)

	id, idPresent, rest := parseID(rest)

	var argRanges []ArgRange
	var argsPresent bool
	if len(rest) > 0 {
		ranges, err := splitJSONArray(rest)
		if err != nil {
			return ParseResult{}, fmt.Errorf("%w: %v", ErrInvalidDataJSON, err)
		}
		argRanges = offsetRanges(ranges, len(message)-len(rest))
		argsPresent = true
	}

	if err := validate(protoKind, attachPresent, idPresent, argsPresent); err != nil {
		return ParseResult{}, err
	}

	switch protoKind {
	case ProtocolConnect:
		return ParseResult{Packet: &Packet{Kind: KindConnect, Namespace: namespace, Message: message}}, nil
	case ProtocolDisconnect:
		return ParseResult{Packet: &Packet{Kind: KindDisconnect, Namespace: namespace, Message: message}}, nil
	case ProtocolEvent:
		return ParseResult{Packet: &Packet{Kind: KindEvent, Namespace: namespace, ID: idOrNil(id, idPresent), Message: message, Args: argRanges}}, nil
	case ProtocolAck:
		idv := idOrNil(id, idPresent)
		return ParseResult{Packet: &Packet{Kind: KindAck, Namespace: namespace, ID: idv, Message: message, Args: argRanges}}, nil
	case ProtocolBinaryEvent, ProtocolBinaryAck:
		kind := KindEvent
		if protoKind == ProtocolBinaryAck {
			kind = KindAck
		}
		partial := &Partial{
			kind:      kind,
			namespace: namespace,
			id:        idOrNil(id, idPresent),
			message:   message,
			args:      argRanges,
			expected:  attachCount,
		}
		if attachCount == 0 {
			pkt := partial.finish()
			return ParseResult{Packet: pkt}, nil
		}
		return ParseResult{Partial: partial}, nil
	default:
		return ParseResult{}, fmt.Errorf("%w: unhandled kind %v", ErrInvalidMessage, protoKind)
	}
}

func parseProtocolKind(b byte) (ProtocolKind, bool) {
	switch b {
	case '0':
		return ProtocolConnect, true
	case '1':
		return ProtocolDisconnect, true
	case '2':
		return ProtocolEvent, true
	case '3':
		return ProtocolAck, true
	case '5':
		return ProtocolBinaryEvent, true
	case '6':
		return ProtocolBinaryAck, true
	default:
		return 0, false
	}
}

// parseAttachmentCount parses a leading "<digits>-" prefix.
func parseAttachmentCount(s string) (count int, rest string, found bool, err error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != '-' {
		return 0, s, false, nil
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false, fmt.Errorf("%w: bad attachment count: %v", ErrInvalidMessage, err)
	}
	return n, s[i+1:], true, nil
}

// parseNamespace parses a leading "/path," prefix, defaulting to "/".
func parseNamespace(s string) (namespace string, rest string) {
	if len(s) == 0 || s[0] != '/' {
		return defaultNamespace, s
	}
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

// parseID parses a leading unsigned integer.
func parseID(s string) (id uint64, present bool, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false, s
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return 0, false, s
	}
	return n, true, s[i:]
}

func idOrNil(id uint64, present bool) *uint64 {
	if !present {
		return nil
	}
	v := id
	return &v
}

func offsetRanges(ranges []ArgRange, offset int) []ArgRange {
	out := make([]ArgRange, len(ranges))
	for i, r := range ranges {
		out[i] = ArgRange{Start: r.Start + offset, End: r.End + offset}
	}
	return out
}

// validate enforces the per-kind grammar constraints from spec section
// 4.2.
func validate(kind ProtocolKind, attachPresent, idPresent, argsPresent bool) error {
	switch kind {
	case ProtocolConnect, ProtocolDisconnect:
		if attachPresent || idPresent || argsPresent {
			return &InvalidExtraDataError{Kind: kind}
		}
	case ProtocolEvent:
		if attachPresent {
			return &InvalidExtraDataError{Kind: kind}
		}
		if !argsPresent {
			return &MissingDataError{Kind: kind, What: "args"}
		}
	case ProtocolAck:
		if attachPresent {
			return &InvalidExtraDataError{Kind: kind}
		}
		if !argsPresent {
			return &MissingDataError{Kind: kind, What: "args"}
		}
		if !idPresent {
			return &MissingDataError{Kind: kind, What: "id"}
		}
	case ProtocolBinaryEvent:
		if !argsPresent {
			return &MissingDataError{Kind: kind, What: "args"}
		}
	case ProtocolBinaryAck:
		if !argsPresent {
			return &MissingDataError{Kind: kind, What: "args"}
		}
		if !idPresent {
			return &MissingDataError{Kind: kind, What: "id"}
		}
	}
	return nil
}

// splitJSONArray splits the top-level elements of a JSON array literal
// into byte ranges into s, without re-parsing element interiors. s must
// begin with '[' and end with the matching ']'.
func splitJSONArray(s string) ([]ArgRange, error) {
	if len(s) == 0 || s[0] != '[' {
		return nil, fmt.Errorf("args do not begin with '['")
	}
	if s[len(s)-1] != ']' {
		return nil, fmt.Errorf("args do not end with ']'")
	}
	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}

	var ranges []ArgRange
	depth := 0
	inString := false
	escaped := false
	start := 0
	trimLeading := func(from, to int) int {
		for from < to && (inner[from] == ' ' || inner[from] == '\t' || inner[from] == '\n' || inner[from] == '\r') {
			from++
		}
		return from
	}
	trimTrailing := func(from, to int) int {
		for to > from && (inner[to-1] == ' ' || inner[to-1] == '\t' || inner[to-1] == '\n' || inner[to-1] == '\r') {
			to--
		}
		return to
	}

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case inString:
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets in args")
			}
		case c == ',' && depth == 0:
			from, to := trimLeading(start, i), trimTrailing(start, i)
			ranges = append(ranges, ArgRange{Start: 1 + from, End: 1 + to})
			start = i + 1
		}
	}
	if inString {
		return nil, fmt.Errorf("unterminated string in args")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in args")
	}
	from, to := trimLeading(start, len(inner)), trimTrailing(start, len(inner))
	ranges = append(ranges, ArgRange{Start: 1 + from, End: 1 + to})
	return ranges, nil
}

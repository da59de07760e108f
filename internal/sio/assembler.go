package sio

// Partial is an intermediate parse state awaiting the announced number of
// binary attachments before it can be delivered as a Packet.
type Partial struct {
	kind      Kind
	namespace string
	id        *uint64
	message   string
	args      []ArgRange
	expected  int
	collected [][]byte
}

func (p *Partial) finish() *Packet {
	return &Packet{
		Kind:        p.kind,
		Namespace:   p.namespace,
		ID:          p.id,
		Message:     p.message,
		Args:        p.args,
		Attachments: p.collected,
	}
}

// Assembler owns at most one pending Partial and collects its attachments
// as they arrive in subsequent binary Engine.IO messages.
type Assembler struct {
	pending *Partial
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Pending reports whether a binary packet is awaiting attachments.
func (a *Assembler) Pending() bool {
	return a.pending != nil
}

// BeginPartial registers a Partial returned by Parse as the assembler's
// pending packet.
func (a *Assembler) BeginPartial(p *Partial) {
	a.pending = p
}

// AddAttachment feeds one binary engine message to the pending partial. It
// returns the assembled Packet once all expected attachments have
// arrived, or nil if more are still expected.
func (a *Assembler) AddAttachment(data []byte) (*Packet, error) {
	if a.pending == nil {
		return nil, ErrUnexpectedAttachment
	}
	a.pending.collected = append(a.pending.collected, data)
	if len(a.pending.collected) > a.pending.expected {
		return nil, &InvalidAttachmentCountError{Expected: a.pending.expected, Actual: len(a.pending.collected)}
	}
	if len(a.pending.collected) < a.pending.expected {
		return nil, nil
	}
	pkt := a.pending.finish()
	a.pending = nil
	return pkt, nil
}

// AddText reports whether a text engine message arriving while a partial
// is pending is legal; it never is (spec section 4.3).
func (a *Assembler) AddText() error {
	if a.pending != nil {
		return ErrTextAttachment
	}
	return nil
}

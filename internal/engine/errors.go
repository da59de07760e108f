package engine

import "errors"

// Sentinel errors for the Engine.IO codec, matching spec section 7's
// EngineError taxonomy. Wrap with fmt.Errorf("...: %w", ...) where extra
// context helps; callers compare with errors.Is.
var (
	ErrInvalidMessage    = errors.New("engine: invalid message")
	ErrWrongMessageType  = errors.New("engine: wrong message type for this layer")
	ErrMessageBeforeOpen = errors.New("engine: message received before open")
	ErrMessageAfterClose = errors.New("engine: message received after close")
	ErrSecondOpen        = errors.New("engine: open received twice")
)

package dispatch

import (
	"errors"
	"fmt"
)

// ErrEventNoArgs reports an Event packet with no arguments, so no event
// name could be read from it.
var ErrEventNoArgs = errors.New("dispatch: event packet carries no arguments")

// UnexpectedAckError reports an Ack packet whose id has no outstanding
// callback registered, either because it was never requested or has
// already been claimed.
type UnexpectedAckError struct {
	Namespace string
	ID        uint64
}

func (e *UnexpectedAckError) Error() string {
	return fmt.Sprintf("dispatch: unexpected ack %d on namespace %q", e.ID, e.Namespace)
}

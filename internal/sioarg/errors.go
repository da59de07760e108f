package sioarg

import (
	"errors"
	"fmt"
)

// ErrNoNumInPlaceholder reports a "_placeholder" object missing a "num"
// field, or whose "num" is not an unsigned integer.
var ErrNoNumInPlaceholder = errors.New("sioarg: placeholder object has no valid num field")

// PlaceholderIndexOutOfRangeError reports a placeholder referencing an
// attachment index that does not exist.
type PlaceholderIndexOutOfRangeError struct {
	Num   uint64
	Count int
}

func (e *PlaceholderIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("sioarg: placeholder num %d out of range (have %d attachments)", e.Num, e.Count)
}

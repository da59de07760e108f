// Package sioarg implements the binary-placeholder-aware JSON argument
// codec: decoding a Socket.IO argument into either its generic JSON shape
// or a typed Go value (with placeholders transparently resolved to
// attachment bytes), and encoding an arbitrary Go value back into JSON
// text plus a side-band list of extracted binary attachments.
package sioarg

import "fmt"

// PlaceholderJSON renders the wire placeholder object for attachment
// index num, per spec section 6.
func PlaceholderJSON(num int) string {
	return fmt.Sprintf(`{"_placeholder":true,"num":%d}`, num)
}

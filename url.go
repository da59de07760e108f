package socketio

import (
	"fmt"
	"net/url"
)

// buildDialURL parses rawURL, maps its scheme to the WebSocket equivalent
// (http/ws -> ws, https/wss -> wss; anything else is rejected), and
// appends the EIO=4&transport=websocket query parameters the handshake
// requires, mirroring the scheme table the upstream parse_uri/parseuri
// helpers use.
func buildDialURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &UrlError{URL: rawURL, Err: err}
	}
	if u.Host == "" {
		return "", &UrlError{URL: rawURL, Err: fmt.Errorf("missing host")}
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", &UrlError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

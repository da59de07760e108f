package socketio

import (
	"net/url"
	"testing"
)

func TestBuildDialURLSchemeMapping(t *testing.T) {
	cases := map[string]string{
		"http://example.com/socket.io":  "ws",
		"ws://example.com/socket.io":    "ws",
		"https://example.com/socket.io": "wss",
		"wss://example.com/socket.io":   "wss",
	}
	for in, wantScheme := range cases {
		out, err := buildDialURL(in)
		if err != nil {
			t.Fatalf("buildDialURL(%q) unexpected error: %v", in, err)
		}
		u, err := url.Parse(out)
		if err != nil {
			t.Fatalf("buildDialURL(%q) produced unparseable url %q: %v", in, out, err)
		}
		if u.Scheme != wantScheme {
			t.Fatalf("buildDialURL(%q) scheme = %q, want %q", in, u.Scheme, wantScheme)
		}
	}
}

func TestBuildDialURLRejectsUnsupportedScheme(t *testing.T) {
	_, err := buildDialURL("ftp://example.com/")
	if err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
	if _, ok := err.(*UrlError); !ok {
		t.Fatalf("expected *UrlError, got %T: %v", err, err)
	}
}

func TestBuildDialURLRejectsMissingHost(t *testing.T) {
	_, err := buildDialURL("ws:///path")
	if err == nil {
		t.Fatal("expected an error for a missing host")
	}
	if _, ok := err.(*UrlError); !ok {
		t.Fatalf("expected *UrlError, got %T: %v", err, err)
	}
}

func TestBuildDialURLAppendsHandshakeQuery(t *testing.T) {
	out, err := buildDialURL("http://example.com/socket.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, err := url.Parse(out)
	if err != nil {
		t.Fatalf("unparseable url %q: %v", out, err)
	}
	q := u.Query()
	if q.Get("EIO") != "4" {
		t.Fatalf("expected EIO=4, got %q", q.Get("EIO"))
	}
	if q.Get("transport") != "websocket" {
		t.Fatalf("expected transport=websocket, got %q", q.Get("transport"))
	}
}

func TestBuildDialURLPreservesPathAndExistingQuery(t *testing.T) {
	out, err := buildDialURL("https://example.com/my/socket.io?token=xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, err := url.Parse(out)
	if err != nil {
		t.Fatalf("unparseable url %q: %v", out, err)
	}
	if u.Path != "/my/socket.io" {
		t.Fatalf("unexpected path: %q", u.Path)
	}
	if u.Query().Get("token") != "xyz" {
		t.Fatalf("expected existing query param to survive, got %q", u.Query().Get("token"))
	}
}

func TestBuildDialURLRejectsUnparseable(t *testing.T) {
	_, err := buildDialURL("://bad")
	if err == nil {
		t.Fatal("expected an error for an unparseable url")
	}
	if _, ok := err.(*UrlError); !ok {
		t.Fatalf("expected *UrlError, got %T: %v", err, err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Connect.URL != "ws://localhost:3000" {
		t.Errorf("expected default url ws://localhost:3000, got %s", cfg.Connect.URL)
	}
	if cfg.Connect.Namespace != "/" {
		t.Errorf("expected default namespace /, got %s", cfg.Connect.Namespace)
	}
	if cfg.Connect.HandshakeTimeout.Duration() != 10*time.Second {
		t.Errorf("expected handshake_timeout 10s, got %s", cfg.Connect.HandshakeTimeout.Duration())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Debug.Enabled {
		t.Errorf("expected debug server disabled by default")
	}
}

func TestLoadValidConfig(t *testing.T) {
	yaml := `
connect:
  url: "wss://example.com/socket.io"
  namespace: "/chat"
  handshake_timeout: "5s"
  auto_ping: false
logging:
  level: "debug"
debug:
  enabled: true
  address: "127.0.0.1:9000"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "socketio-demo.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Connect.URL != "wss://example.com/socket.io" {
		t.Errorf("unexpected url: %s", cfg.Connect.URL)
	}
	if cfg.Connect.Namespace != "/chat" {
		t.Errorf("unexpected namespace: %s", cfg.Connect.Namespace)
	}
	if cfg.Connect.HandshakeTimeout.Duration() != 5*time.Second {
		t.Errorf("expected handshake_timeout 5s, got %s", cfg.Connect.HandshakeTimeout.Duration())
	}
	if cfg.Connect.AutoPing {
		t.Errorf("expected auto_ping false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if !cfg.Debug.Enabled || cfg.Debug.Address != "127.0.0.1:9000" {
		t.Errorf("unexpected debug config: %+v", cfg.Debug)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/socketio-demo.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestValidateMissingURL(t *testing.T) {
	cfg := Default()
	cfg.Connect.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing url")
	}
}

func TestValidateMissingNamespace(t *testing.T) {
	cfg := Default()
	cfg.Connect.Namespace = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing namespace")
	}
}

func TestValidateZeroHandshakeTimeout(t *testing.T) {
	cfg := Default()
	cfg.Connect.HandshakeTimeout = Duration(0)
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero handshake_timeout")
	}
}

func TestValidateBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid log level")
	}
}

func TestValidateDebugAddressRequired(t *testing.T) {
	cfg := Default()
	cfg.Debug.Enabled = true
	cfg.Debug.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for enabled debug server without address")
	}
}

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLoggerLevels(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range cases {
		logger := setupLogger(level, "json")
		if !logger.Enabled(nil, want) {
			t.Fatalf("level %q: expected handler enabled at %v", level, want)
		}
	}
}

func TestLoadProcessConfigDefaults(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"socketio-demo", "connect"}

	v := loadProcessConfig()
	if v.GetString("namespace") != "/" {
		t.Fatalf("unexpected default namespace: %q", v.GetString("namespace"))
	}
	if v.GetString("url") != "" {
		t.Fatalf("expected no default url, got %q", v.GetString("url"))
	}
}

func TestLoadProcessConfigParsesFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"socketio-demo", "connect", "--url", "ws://localhost:4000", "--namespace", "/chat"}

	v := loadProcessConfig()
	if v.GetString("url") != "ws://localhost:4000" {
		t.Fatalf("unexpected url: %q", v.GetString("url"))
	}
	if v.GetString("namespace") != "/chat" {
		t.Fatalf("unexpected namespace: %q", v.GetString("namespace"))
	}
}

func TestLoadProcessConfigReadsConfigFile(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	yaml := `
connect:
  url: "wss://example.com/socket.io"
  namespace: "/chat"
  handshake_timeout: "5s"
logging:
  level: "debug"
debug:
  enabled: true
  address: "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	os.Args = []string{"socketio-demo", "connect", "--config-file", path}

	v := loadProcessConfig()
	if v.GetString("url") != "wss://example.com/socket.io" {
		t.Fatalf("unexpected url: %q", v.GetString("url"))
	}
	if v.GetString("namespace") != "/chat" {
		t.Fatalf("unexpected namespace: %q", v.GetString("namespace"))
	}
	if v.GetString("debug-addr") != "127.0.0.1:9000" {
		t.Fatalf("unexpected debug-addr: %q", v.GetString("debug-addr"))
	}
}

func TestLoadProcessConfigFlagOverridesConfigFile(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	yaml := `
connect:
  url: "wss://example.com/socket.io"
  namespace: "/chat"
  handshake_timeout: "5s"
logging:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	os.Args = []string{"socketio-demo", "connect", "--config-file", path, "--url", "ws://override:4000"}

	v := loadProcessConfig()
	if v.GetString("url") != "ws://override:4000" {
		t.Fatalf("expected flag to override config file url, got %q", v.GetString("url"))
	}
}

func TestLoadProcessConfigEnvOverride(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"socketio-demo", "connect"}

	t.Setenv("SOCKETIO_DEMO_NAMESPACE", "/from-env")

	v := loadProcessConfig()
	if v.GetString("namespace") != "/from-env" {
		t.Fatalf("expected env override, got %q", v.GetString("namespace"))
	}
}

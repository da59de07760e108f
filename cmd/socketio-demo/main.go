package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	socketio "github.com/sadewadee/socketio-client"
	"github.com/sadewadee/socketio-client/internal/config"
)

var version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "connect":
		connect()
	case "version":
		fmt.Printf("socketio-demo v%s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func connect() {
	v := loadProcessConfig()

	logger := setupLogger(v.GetString("log-level"), v.GetString("log-format"))
	logger.Info("socketio-demo starting", "version", version)

	url := v.GetString("url")
	if url == "" {
		logger.Error("missing required --url")
		os.Exit(1)
	}
	namespace := v.GetString("namespace")
	handshakeTimeout := v.GetDuration("handshake-timeout")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := socketio.Connect(ctx, url,
		socketio.WithNamespace(namespace),
		socketio.WithLogger(logger),
		socketio.WithHandshakeTimeout(handshakeTimeout),
		socketio.WithFrameTrace(v.GetInt("trace-capacity")),
	)
	if err != nil {
		logger.Error("failed to connect", "url", url, "error", err)
		os.Exit(1)
	}

	client.SetFallbackCallback(func(args *socketio.Args, ack *socketio.AckBuilder) {
		logger.Info("event received", "num_args", args.NumArgs())
	})
	client.SetConnectCallback(namespace, func(ns string) {
		logger.Info("namespace connected", "namespace", ns)
	})
	client.SetDisconnectCallback(namespace, func(ns string) {
		logger.Info("namespace disconnected", "namespace", ns)
	})

	var debugSrv *http.Server
	if addr := v.GetString("debug-addr"); addr != "" {
		debugSrv = newDebugServer(addr, client, logger)
		go func() {
			logger.Info("debug server listening", "address", addr)
			if err := debugSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("debug server error", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("socketio-demo connected", "sid", client.SID())

	<-quit
	logger.Info("shutdown signal received")

	if debugSrv != nil {
		stopDebugServer(ctx, debugSrv, logger)
	}

	if err := client.Close(); err != nil {
		logger.Error("client close error", "error", err)
	}

	logger.Info("socketio-demo stopped")
}

// loadProcessConfig assembles the demo's process configuration in
// increasing priority: built-in defaults, an optional internal/config
// YAML file (--config-file, a persistent library-shaped config distinct
// from this process config), viper's own config-file/env support, then
// command-line flags.
func loadProcessConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault("namespace", "/")
	v.SetDefault("handshake-timeout", 10*time.Second)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")
	v.SetDefault("trace-capacity", 0)
	v.SetDefault("debug-addr", "")

	if libCfgPath := flagValue("--config-file"); libCfgPath != "" {
		if libCfg, err := config.Load(libCfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", libCfgPath, err)
		} else {
			v.SetDefault("url", libCfg.Connect.URL)
			v.SetDefault("namespace", libCfg.Connect.Namespace)
			v.SetDefault("handshake-timeout", libCfg.Connect.HandshakeTimeout.Duration())
			v.SetDefault("log-level", libCfg.Logging.Level)
			v.SetDefault("log-format", libCfg.Logging.Format)
			if libCfg.Debug.Enabled {
				v.SetDefault("debug-addr", libCfg.Debug.Address)
			}
		}
	}

	v.SetEnvPrefix("SOCKETIO_DEMO")
	v.AutomaticEnv()

	if cfgPath := os.Getenv("SOCKETIO_DEMO_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		_ = v.ReadInConfig()
	}

	for _, flag := range []string{"--url", "--namespace", "--debug-addr"} {
		if val := flagValue(flag); val != "" {
			v.Set(flag[2:], val)
		}
	}

	return v
}

// flagValue scans os.Args for "name value" and returns value, or "" if
// name is absent.
func flagValue(name string) string {
	for i := 2; i < len(os.Args)-1; i++ {
		if os.Args[i] == name {
			return os.Args[i+1]
		}
	}
	return ""
}

func setupLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var writer io.Writer = os.Stdout
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	return slog.New(handler)
}

func printUsage() {
	fmt.Println(`socketio-demo - Socket.IO client connection demo

Usage:
  socketio-demo <command> [options]

Commands:
  connect   Connect to a Socket.IO server and log inbound events
  version   Show version
  help      Show this help

Options (connect):
  --url <url>              Server URL, e.g. ws://localhost:3000 (required)
  --namespace <ns>         Namespace to join (default "/")
  --debug-addr <addr>      Address for the local debug HTTP server (default disabled)
  --config-file <path>     YAML config file (internal/config schema); flags and env still win

Environment:
  SOCKETIO_DEMO_CONFIG     Path to a viper-readable config file (yaml/json/toml)
  SOCKETIO_DEMO_URL, SOCKETIO_DEMO_NAMESPACE  Set --url / --namespace (a flag on the command line takes precedence)

Examples:
  socketio-demo connect --url ws://localhost:3000
  socketio-demo connect --url ws://localhost:3000 --debug-addr 127.0.0.1:6061`)
}

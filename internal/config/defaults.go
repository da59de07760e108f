package config

import "time"

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Connect: ConnectConfig{
			URL:              "ws://localhost:3000",
			Namespace:        "/",
			HandshakeTimeout: Duration(10 * time.Second),
			AutoPing:         true,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Debug: DebugConfig{
			Enabled: false,
			Address: "127.0.0.1:6061",
		},
	}
}

// Package observability provides OpenTelemetry tracing, extraction metrics,
// and trace-aware structured logging for bindinfo.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the binary was launched.
type AppMode string

// Application modes.
const (
	// ModeCLI is a one-shot command-line run.
	ModeCLI AppMode = "cli"
	// ModeMCP is the long-running MCP server.
	ModeMCP AppMode = "mcp"
)

const (
	defaultServiceName        = "bindinfo"
	defaultShutdownTimeoutSec = 5
)

// Config holds observability settings.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export and installs no-op providers.
	OTLPEndpoint string
	OTLPInsecure bool

	// Prometheus exposes metrics through Providers.MetricsHandler.
	Prometheus bool

	// SampleRatio is the root trace sampling ratio. Zero samples everything.
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool
	// LogOutput receives log records; nil means os.Stderr.
	LogOutput io.Writer

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

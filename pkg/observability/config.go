// Package observability wires OpenTelemetry tracing and metrics and the slog
// logger used by lockcov.
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

// ModeCLI is the only mode lockcov runs in.
const ModeCLI AppMode = "cli"

const (
	defaultServiceName        = "lockcov"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "ci", "dev").
	Environment string

	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporters.
	OTLPHeaders map[string]string

	OTLPInsecure bool

	// SampleRatio is the trace sampling ratio. Zero samples every root span.
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	// CollectMetrics attaches an in-process Prometheus registry to the meter
	// provider so run metrics can be dumped after the analysis.
	CollectMetrics bool

	// ShutdownTimeoutSec bounds the final flush.
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

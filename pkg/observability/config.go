package observability

import "log/slog"

// AppMode tags which binary entry point is running, surfaced on every log
// record and resource attribute so multi-process deployments can be told
// apart in aggregated telemetry.
type AppMode string

// Known application modes.
const (
	ModeCLI   AppMode = "cli"
	ModeServe AppMode = "serve"
	ModeMCP   AppMode = "mcp"
)

const defaultShutdownTimeoutSec = 5

const defaultServiceName = "codeatlas"

// Config controls observability provider construction. Zero value is a
// usable no-op configuration: no tracing export, a text logger at Info.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint, when non-empty, enables span export over OTLP/gRPC.
	// Metrics are always exported via the Prometheus exporter that
	// buildMeterProvider registers on the default Prometheus registerer
	// (see PrometheusHandler), independent of this field.
	OTLPEndpoint string
	OTLPInsecure bool
	OTLPHeaders  map[string]string
	SampleRatio  float64
	DebugTrace   bool
	TraceVerbose bool

	LogLevel slog.Level
	LogJSON  bool

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config with sane CLI defaults: info-level logging,
// no OTLP export, the default shutdown budget.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

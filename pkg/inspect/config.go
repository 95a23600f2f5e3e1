package inspect

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for the inspector server.
type Config struct {
	// Address is the address to listen on when using Run.
	// Default: ":6060".
	Address string

	// Dispatch posts fn onto the goroutine that owns the graph. Snapshot
	// handlers and event-sink installation go through it so the inspector
	// never touches reactive state from an HTTP goroutine.
	// Default: nil (closures run inline; only safe when the host is
	// single-goroutine, as in tests).
	Dispatch func(fn func())

	// SnapshotTimeout is the maximum time a snapshot handler waits for the
	// host loop to execute its dispatched read.
	// Default: 2 seconds.
	SnapshotTimeout time.Duration

	// TracerName is the name of the otel tracer spans are created from.
	// Default: "loom.inspect".
	TracerName string

	// Gatherer serves the /metrics endpoint.
	// Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// WebSocket stream

	// StreamBuffer is the per-subscriber frame buffer. When a subscriber
	// falls behind, frames are dropped (and counted) rather than blocking
	// the graph.
	// Default: 256.
	StreamBuffer int

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 1024.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: allows all origins (the inspector is a debug surface; bind
	// it to localhost in production).
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout is the maximum time to wait when sending a stream frame.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between stream heartbeat pings.
	// Default: 30 seconds.
	PingInterval time.Duration

	// PongWait is how long a stream connection may go without traffic from
	// the client before it is closed.
	// Default: 60 seconds.
	PongWait time.Duration

	// Server lifecycle

	// ReadHeaderTimeout is the HTTP server's header read timeout.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Logger receives server logs.
	// Default: slog.Default() with component=inspect.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":6060",
		SnapshotTimeout:   2 * time.Second,
		TracerName:        "loom.inspect",
		Gatherer:          prometheus.DefaultGatherer,
		StreamBuffer:      256,
		ReadBufferSize:    1024,
		WriteBufferSize:   4096,
		CheckOrigin:       func(r *http.Request) bool { return true },
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		PongWait:          60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level      Level     // tracing level
	Format     Format    // output format (FormatAuto for auto-detection)
	Output     io.Writer // if nil, use OutputPath
	OutputPath string    // file path, "-" or "" for stderr
	RingSize   int       // events kept for a failure dump (default 4096)
}

// New creates a Tracer based on Config. LevelError yields a ring-only
// tracer; higher levels stream and keep a ring for failure dumps.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	ring := NewRingTracer(cfg.RingSize, cfg.Level)
	if cfg.Level == LevelError {
		return ring, nil
	}

	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".json") {
			format = FormatNDJSON
		}
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	return NewMultiTracer(cfg.Level, NewStreamTracer(w, cfg.Level, format), ring), nil
}

// DumpRing writes the ring buffer of t, if it has one, to w.
func DumpRing(t Tracer, w io.Writer) error {
	switch tr := t.(type) {
	case *RingTracer:
		return tr.Dump(w, FormatText)
	case *MultiTracer:
		if ring, ok := tr.Ring(); ok {
			return ring.Dump(w, FormatText)
		}
	}
	return nil
}

// openOutput opens the output writer from config.
func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}

	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}

	return f, nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }

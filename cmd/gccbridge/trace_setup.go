package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gccbridge/internal/config"
	"gccbridge/internal/trace"
)

// setupTracing builds the tracer from the trace flags, falling back to the
// [trace] section of the configuration for flags left unset. It attaches the
// tracer to the command context and returns a cleanup function.
func setupTracing(cmd *cobra.Command, cfg config.TraceConfig) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()

	output := cfg.Output
	if flags.Changed("trace") {
		output, _ = flags.GetString("trace")
	}
	levelStr := cfg.Level
	if flags.Changed("trace-level") {
		levelStr, _ = flags.GetString("trace-level")
	}
	formatStr := cfg.Format
	if flags.Changed("trace-format") {
		formatStr, _ = flags.GetString("trace-format")
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	// An output file without an explicit level means the user wants events.
	if !flags.Changed("trace-level") && output != "" && (levelStr == "" || levelStr == "off") {
		levelStr = "detail"
	}
	if levelStr == "" {
		levelStr = "off"
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

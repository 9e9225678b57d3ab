package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jet/internal/trace"
)

type traceFlags struct {
	level  trace.Level
	output string
}

func (f *traceFlags) register(cmd *cobra.Command) {
	cmd.Flags().Var(&f.level, "trace", "trace level (off|error|phase|detail|debug)")
	cmd.Flags().StringVar(&f.output, "trace-output", "-", "trace output path, - for stderr (.ndjson selects JSON lines)")
}

// setupTracing attaches the tracer to the command context and returns a
// cleanup function. The ring is non-nil whenever tracing is on; at level
// error it is the only sink and is dumped when a check fails.
func setupTracing(cmd *cobra.Command, f traceFlags) (func(), *trace.RingTracer, error) {
	tracer, ring, err := trace.New(trace.Config{Level: f.level, OutputPath: f.output})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}
	return cleanup, ring, nil
}

// dumpTraceOnPanic печатает кольцевой буфер и паникует дальше.
func dumpTraceOnPanic(ring *trace.RingTracer) {
	if r := recover(); r != nil {
		if ring != nil {
			fmt.Fprintln(os.Stderr, "== trace ==")
			_ = ring.Dump(os.Stderr, trace.FormatText)
		}
		panic(r)
	}
}

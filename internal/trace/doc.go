// Package trace records what the verifier is doing.
//
// Spans mark the driver run, every verification pass and every unit a
// pass touches; node spans cover individual conformance checks.
//
//	jet check --trace=phase --trace-output=- ./src
//
// Levels:
//
//   - LevelOff: nothing
//   - LevelError: only the ring buffer, dumped on failure
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-unit events
//   - LevelDebug: everything including node spans
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "pass", parent)
//	defer span.End("")
package trace

// Package trace records what the bridge does while it lowers a unit.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	gccbridge translate --trace=- --trace-level=detail unit.json
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope; the Level decides which scopes are recorded:
//
//   - LevelError: nothing is streamed, the ring is dumped on failure
//   - LevelPhase: ScopeDriver (unit load, unit translation, output)
//   - LevelDetail: ScopeFunction (one span per function)
//   - LevelDebug: ScopeInstr (one point per lowered instruction)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFunction, "fn:main", parentID)
//	defer span.End("")
package trace

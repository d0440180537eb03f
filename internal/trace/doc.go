// Package trace records what a psfmt run is doing: spans for the command,
// its stages, every file and the passes over a file.
//
// Enable tracing via command-line flags:
//
//	psfmt fmt --trace=- --trace-level=file ./scripts
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped when a run fails
//
// Levels select how deep events go: run (command and stages), file (one
// span per file) and pass (lex, parse, print, render inside a file).
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "file")
//	defer span.End("")
//
// StartSpan parents the new span on the one already in ctx.
package trace

package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

// FromContext returns the tracer of the command, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. The CLI does this once per command.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// ParentID returns the ID of the span stored in ctx, 0 at the top of a run.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if s, ok := ctx.Value(spanKey{}).(*Span); ok {
		return s.ID()
	}
	return 0
}

// StartSpan begins a span under the span stored in ctx and returns a context
// carrying the new one, so file spans nest under the run and passes under
// their file.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, ParentID(ctx))
	if s.ID() == 0 {
		// уровень отфильтровал span: дочерние цепляются к прежнему родителю
		return ctx, s
	}
	return context.WithValue(ctx, spanKey{}, s), s
}

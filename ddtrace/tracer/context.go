// Active-span propagation uses context.Context chaining (ContextWithSpan /
// SpanFromContext / StartSpanFromContext): Go has no contextvars-equivalent
// thread-local storage, so the active span travels explicitly with the
// caller's context instead. Nesting restore is automatic because a
// context.Context is immutable; each context.WithValue call is itself the
// "leave" operation's dual.
package tracer

import "context"

type spanContextKey struct{}

// ContextWithSpan returns a copy of ctx carrying s as the active span.
// Restoring the prior active span is implicit: callers resume using the
// parent ctx value they already held before this call.
func ContextWithSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanContextKey{}, s)
}

// SpanFromContext returns the active span carried by ctx, or (nil, false)
// if none is set. A span created on one context branch is never visible
// through a sibling branch, since context.Context values are append-only
// down a single chain.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	s, ok := ctx.Value(spanContextKey{}).(*Span)
	return s, ok
}

// StartSpanFromContext starts a new span named name as a child of ctx's
// active span (if any), and returns both the child span and a context
// carrying it as the new active span.
func StartSpanFromContext(ctx context.Context, name string, opts ...SpanOption) (*Span, context.Context) {
	var parent *Span
	if s, ok := SpanFromContext(ctx); ok {
		parent = s
	}
	s := startSpan(name, parent, opts...)
	return s, ContextWithSpan(ctx, s)
}

package tracer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanFromContextRoundTrip(t *testing.T) {
	s := StartSpan("x")
	ctx := ContextWithSpan(context.Background(), s)
	got, ok := SpanFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestSpanFromContextAbsent(t *testing.T) {
	_, ok := SpanFromContext(context.Background())
	assert.False(t, ok)
}

func TestStartSpanFromContextLinksParent(t *testing.T) {
	Init(WithSamplingRate(1.0), WithBufferSize(16))
	defer Shutdown()

	root, ctx := StartSpanFromContext(context.Background(), "root")
	child, ctx2 := StartSpanFromContext(ctx, "child")
	defer child.Finish(nil)
	defer root.Finish(nil)

	assert.Equal(t, root.TraceIDHex(), child.TraceIDHex())
	assert.Equal(t, root.SpanIDHex(), spanIDHex(child.parentSpanID))

	got, ok := SpanFromContext(ctx2)
	require.True(t, ok)
	assert.Same(t, child, got)
}

func TestContextIsolationAcrossGoroutines(t *testing.T) {
	// S6/invariant 6: a span created on one context branch is never
	// visible through a sibling branch.
	base := context.Background()
	a, ctxA := StartSpanFromContext(base, "a")
	b, ctxB := StartSpanFromContext(base, "b")

	var wg sync.WaitGroup
	wg.Add(2)
	var sawA, sawB *Span
	go func() {
		defer wg.Done()
		sawA, _ = SpanFromContext(ctxA)
	}()
	go func() {
		defer wg.Done()
		sawB, _ = SpanFromContext(ctxB)
	}()
	wg.Wait()

	assert.Same(t, a, sawA)
	assert.Same(t, b, sawB)
	assert.NotSame(t, sawA, sawB)
}

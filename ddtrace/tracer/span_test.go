package tracer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPlusTwoChildren(t *testing.T) {
	// S1: root + a + b -> three records; a/b share root's span_id as
	// parent; all three share root's trace_id; root has no parent.
	Init(WithSamplingRate(1.0), WithBufferSize(16))
	defer Shutdown()

	root := StartSpan("root")
	a := startSpan("a", root)
	a.Finish(nil)
	b := startSpan("b", root)
	b.Finish(nil)
	root.Finish(nil)

	state := currentState()
	records := state.buf.drain(16)
	require.Len(t, records, 3)

	byName := map[string]Record{}
	for _, r := range records {
		byName[r.Name] = r
	}
	assert.Empty(t, byName["root"].ParentSpanID)
	assert.Equal(t, byName["root"].SpanID, byName["a"].ParentSpanID)
	assert.Equal(t, byName["root"].SpanID, byName["b"].ParentSpanID)
	assert.Equal(t, byName["root"].TraceID, byName["a"].TraceID)
	assert.Equal(t, byName["root"].TraceID, byName["b"].TraceID)
}

func TestErrorPropagationSetsStatus(t *testing.T) {
	// S2: outer/inner; inner fails with "boom"; both end up ERROR.
	Init(WithSamplingRate(1.0), WithBufferSize(16))
	defer Shutdown()

	outer := StartSpan("outer")
	inner := startSpan("inner", outer)
	inner.Finish(errors.New("boom"))
	outer.Finish(errors.New("boom"))

	state := currentState()
	records := state.buf.drain(16)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, StatusError, r.Status)
	}
	byName := map[string]Record{}
	for _, r := range records {
		byName[r.Name] = r
	}
	assert.Equal(t, "boom", byName["inner"].ErrorMessage)
}

func TestFinishIsIdempotent(t *testing.T) {
	Init(WithSamplingRate(1.0), WithBufferSize(16))
	defer Shutdown()

	s := StartSpan("once")
	s.Finish(nil)
	s.Finish(nil) // must not enqueue a second record or panic

	state := currentState()
	records := state.buf.drain(16)
	assert.Len(t, records, 1)
}

func TestUnsampledSpanDoesNotEmit(t *testing.T) {
	Init(WithSamplingRate(0.0), WithBufferSize(16))
	defer Shutdown()

	s := StartSpan("dropped")
	s.Finish(nil)

	state := currentState()
	assert.Equal(t, 0, state.buf.len())
}

func TestChildInheritsParentSamplingDecision(t *testing.T) {
	Init(WithSamplingRate(0.0), WithBufferSize(16))
	defer Shutdown()

	root := StartSpan("root")
	child := startSpan("child", root)
	assert.Equal(t, root.sampled, child.sampled)
}

func TestSetAttributeLastWriteWins(t *testing.T) {
	s := StartSpan("x")
	s.SetAttribute("k", 1)
	s.SetAttribute("k", 2)
	s.mu.Lock()
	v := s.attributes["k"]
	s.mu.Unlock()
	assert.EqualValues(t, 2, v.Int())
}

func TestSetAttributeStringifiesUnsupportedTypes(t *testing.T) {
	s := StartSpan("x")
	s.SetAttribute("k", []int{1, 2, 3})
	s.mu.Lock()
	v := s.attributes["k"]
	s.mu.Unlock()
	assert.True(t, v.IsString())
}

func TestDurationMSNonNegative(t *testing.T) {
	Init(WithSamplingRate(1.0), WithBufferSize(16))
	defer Shutdown()

	s := StartSpan("x")
	s.Finish(nil)
	state := currentState()
	records := state.buf.drain(16)
	require.Len(t, records, 1)
	assert.GreaterOrEqual(t, records[0].EndTimeNS, records[0].StartTimeNS)
	assert.GreaterOrEqual(t, records[0].DurationMS(), 0.0)
}

func TestSetGPUsReplaceSemantics(t *testing.T) {
	s := StartSpan("x")
	s.SetGPUs([]string{"cuda:0"})
	s.SetGPUs([]string{"cuda:1", "cuda:2"})
	s.mu.Lock()
	labels := s.gpuLabels
	s.mu.Unlock()
	assert.Equal(t, []string{"cuda:1", "cuda:2"}, labels)
}

func TestSamplingCoherenceAcrossRoots(t *testing.T) {
	// Invariant 4: with rate=0.5 over 1000 independent roots, the kept
	// fraction lies in [0.35, 0.65].
	Init(WithSamplingRate(0.5), WithBufferSize(2000))
	defer Shutdown()

	for i := 0; i < 1000; i++ {
		s := StartSpan("root")
		s.Finish(nil)
	}
	state := currentState()
	kept := state.buf.len()
	frac := float64(kept) / 1000.0
	assert.GreaterOrEqual(t, frac, 0.35)
	assert.LessOrEqual(t, frac, 0.65)
}

// Grounded on original_source/sdk-py/benchmarks/bench_overhead.py (measures
// per-span overhead of the hot path: create, a couple of attributes,
// finish) translated to Go's testing.B harness.
package tracer

import (
	"testing"
	"time"

	"github.com/Streamize-llc/axonize/ddtrace/gpu"
)

func BenchmarkSpanLifecycle(b *testing.B) {
	Init(WithSamplingRate(1.0), WithBufferSize(8192))
	defer Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := StartSpan("inference")
		s.SetAttribute("model", "gpt-4")
		s.SetAttribute("tokens", int64(128))
		s.Finish(nil)
	}
}

func BenchmarkSpanLifecycleUnsampled(b *testing.B) {
	Init(WithSamplingRate(0.0), WithBufferSize(8192))
	defer Shutdown()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := StartSpan("inference")
		s.SetAttribute("model", "gpt-4")
		s.Finish(nil)
	}
}

func BenchmarkRingBufferEnqueue(b *testing.B) {
	buf := newRingBuffer(8192)
	rec := recordNamed("x")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.enqueue(rec)
	}
}

func BenchmarkResolveLabelsTwoGPUs(b *testing.B) {
	backend := gpu.NewMockBackend(2, 2)
	p, err := gpu.NewProfiler(backend, time.Second)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.ResolveLabels([]string{"cuda:0", "cuda:1"})
	}
}

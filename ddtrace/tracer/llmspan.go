// Grounded on original_source/sdk-py/src/axonize/_llm.py (TTFT and
// throughput derivation at exit) layered over the same Span machinery as
// span.go; LLMSpan embeds *Span rather than duplicating its fields.
package tracer

import (
	"sync/atomic"
	"time"

	"github.com/Streamize-llc/axonize/ddtrace/ext"
)

// LLMSpan extends Span with streaming-generation bookkeeping: token
// counts, time-to-first-token, and output throughput, all derived and
// attached as attributes at Finish time.
type LLMSpan struct {
	*Span

	tokensInput  atomic.Int64
	tokensOutput atomic.Int64

	firstTokenNS atomic.Int64 // 0 until the first RecordToken call
	lastTokenNS  atomic.Int64
}

// StartLLMSpan starts a root or child LLM span. Default kind is SERVER,
// and ai.inference.type defaults to "llm" unless overridden via
// SetAttribute.
func StartLLMSpan(name string, parent *Span, opts ...SpanOption) *LLMSpan {
	allOpts := append([]SpanOption{WithSpanKind(KindServer)}, opts...)
	s := startSpan(name, parent, allOpts...)
	s.SetAttribute(ext.LLMInferenceType, ext.DefaultInferenceType)
	return &LLMSpan{Span: s}
}

// SetTokensInput records the prompt token count.
func (l *LLMSpan) SetTokensInput(n int64) {
	l.tokensInput.Store(n)
}

// SetTokensOutput overrides the output token count directly, bypassing
// RecordToken's per-chunk increments (used when a provider reports the
// total instead of streaming individual tokens).
func (l *LLMSpan) SetTokensOutput(n int64) {
	l.tokensOutput.Store(n)
}

// RecordToken monotonically increments tokens_output by one. On the first
// call it latches first_token_ns; every call updates last_token_ns.
func (l *LLMSpan) RecordToken() {
	now := time.Now().UnixNano()
	l.tokensOutput.Add(1)
	l.firstTokenNS.CompareAndSwap(0, now)
	l.lastTokenNS.Store(now)
}

// SetModel records the model name and optional version.
func (l *LLMSpan) SetModel(name string, version string) {
	l.SetAttribute(ext.LLMModelName, name)
	if version != "" {
		l.SetAttribute(ext.LLMModelVersion, version)
	}
}

// Finish derives token/TTFT/throughput attributes before delegating to
// the embedded Span's finish, using one shared end timestamp so
// tokens_per_second is computed against the exact same end_time_ns the
// emitted record carries.
func (l *LLMSpan) Finish(err error) {
	endTimeNS := time.Now().UnixNano()

	tokensOut := l.tokensOutput.Load()
	l.SetAttribute(ext.LLMTokensInput, l.tokensInput.Load())
	l.SetAttribute(ext.LLMTokensOutput, tokensOut)

	if first := l.firstTokenNS.Load(); tokensOut >= 1 && first > 0 {
		l.mu.Lock()
		startNS := l.startTimeNS
		l.mu.Unlock()

		l.SetAttribute(ext.LLMTTFTMs, float64(first-startNS)/1e6)

		if genSeconds := float64(endTimeNS-first) / 1e9; genSeconds > 0 {
			l.SetAttribute(ext.LLMTokensPerSecond, float64(tokensOut)/genSeconds)
		}
	}

	l.Span.finishAt(err, endTimeNS)
}

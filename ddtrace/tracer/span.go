// Grounded on other_examples/37758f5d_willnorris-imageproxy__vendor-gopkg.in-DataDog-dd-trace-go.v1-ddtrace-tracer-span.go.go
// (locking discipline, finished-once guard, last-write-wins attribute map)
// and original_source/_span.py (parent/trace resolution, sampling
// inheritance), with the state machine reduced to {Created, Active,
// Emitted}. Finish never flushes synchronously over the network; it only
// ever pushes the finished record into the in-memory ring buffer.
package tracer

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Streamize-llc/axonize/ddtrace/gpu"
)

// Span is the hot-path mutable unit of work. It transitions Created (via
// startSpan) -> Active -> Emitted (via Finish). No Span method may panic;
// each is isolated from the caller except for Finish's own re-derivation
// of error status, which never panics either.
type Span struct {
	mu sync.Mutex

	name         string
	kind         Kind
	status       Status
	errorMessage string

	traceID      traceID
	spanIDVal    uint64
	parentSpanID uint64
	hasParent    bool

	startTimeNS int64
	endTimeNS   int64

	attributes      map[string]Attribute
	gpuLabels       []string
	gpuAttributions []gpu.Attribution

	sampled  bool
	sink     *runtimeState
	finished bool
}

type spanConfig struct {
	kind Kind
}

// SpanOption configures a span at creation time.
type SpanOption func(*spanConfig)

// WithSpanKind overrides the default INTERNAL kind.
func WithSpanKind(k Kind) SpanOption {
	return func(c *spanConfig) { c.kind = k }
}

// startSpan is the shared constructor used by StartSpanFromContext, the
// trace wrapper, and LLM span construction. parent may be nil for a trace
// root.
func startSpan(name string, parent *Span, opts ...SpanOption) *Span {
	cfg := spanConfig{kind: KindInternal}
	for _, opt := range opts {
		opt(&cfg)
	}

	state := currentState()
	s := &Span{
		name:        name,
		kind:        cfg.kind,
		startTimeNS: time.Now().UnixNano(),
		sink:        state,
		attributes:  make(map[string]Attribute),
	}

	if parent != nil {
		parent.mu.Lock()
		s.traceID = parent.traceID
		s.parentSpanID = parent.spanIDVal
		s.hasParent = true
		s.sampled = parent.sampled
		parent.mu.Unlock()
	} else {
		s.traceID = newTraceID()
		s.sampled = sampleBernoulli(state.cfg.SamplingRate)
	}
	s.spanIDVal = newSpanID()
	return s
}

// sampleBernoulli implements head-based sampling: a fresh coin flip at the
// trace root, inherited thereafter.
func sampleBernoulli(rate float64) bool {
	switch {
	case rate >= 1:
		return true
	case rate <= 0:
		return false
	default:
		return rand.Float64() < rate
	}
}

// SetAttribute records a scalar value under key, overwriting any prior
// value. Unsupported value types are stringified rather than rejected, so
// this can never raise into user code.
func (s *Span) SetAttribute(key string, value any) {
	var attr Attribute
	switch v := value.(type) {
	case bool:
		attr = boolAttr(v)
	case int:
		attr = intAttr(int64(v))
	case int32:
		attr = intAttr(int64(v))
	case int64:
		attr = intAttr(v)
	case float32:
		attr = floatAttr(float64(v))
	case float64:
		attr = floatAttr(v)
	case string:
		attr = stringAttr(v)
	default:
		attr = stringAttr(fmt.Sprint(v))
	}
	s.mu.Lock()
	s.attributes[key] = attr
	s.mu.Unlock()
}

// SetGPUs resolves labels to GPU attribution records via the active
// profiler, if any. Replace semantics: a later call overwrites an earlier
// one rather than appending.
func (s *Span) SetGPUs(labels []string) {
	cp := append([]string(nil), labels...)

	var attrs []gpu.Attribution
	if s.sink != nil && s.sink.profiler != nil {
		attrs = s.sink.profiler.ResolveLabels(cp)
	}

	s.mu.Lock()
	s.gpuLabels = cp
	s.gpuAttributions = attrs
	s.mu.Unlock()
}

// SetStatus explicitly overrides the span's status; msg is attached as the
// error message when provided. The emitted record carries the message only
// if the span's final status is ERROR.
func (s *Span) SetStatus(status Status, msg ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	if len(msg) > 0 {
		s.errorMessage = msg[0]
	}
}

// SpanIDHex returns the span's 16-hex-digit identifier.
func (s *Span) SpanIDHex() string { return spanIDHex(s.spanIDVal) }

// TraceIDHex returns the trace's 32-hex-digit identifier.
func (s *Span) TraceIDHex() string { return s.traceID.HexEncoded() }

// Finish ends the span. If err is non-nil the span is marked ERROR with
// err's message and the exception is expected to keep propagating in the
// caller (Finish itself never panics or returns an error). Otherwise an
// UNSET status normalizes to OK. Finish is idempotent: a second call is a
// no-op, since scope-exit helpers may call it from both a deferred
// recover and a normal return path.
func (s *Span) Finish(err error) {
	s.finishAt(err, time.Now().UnixNano())
}

// finishAt is Finish with an explicit end timestamp, so LLMSpan can derive
// tokens_per_second against the exact same end_time_ns the record carries.
func (s *Span) finishAt(err error, endTimeNS int64) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.endTimeNS = endTimeNS
	if err != nil {
		s.status = StatusError
		s.errorMessage = err.Error()
		if s.errorMessage == "" {
			s.errorMessage = fmt.Sprintf("%T", err)
		}
	} else if s.status == StatusUnset {
		s.status = StatusOK
	}
	rec := s.buildRecordLocked()
	sampled := s.sampled
	snk := s.sink
	s.mu.Unlock()

	if sampled && snk != nil && snk.buf != nil {
		snk.buf.enqueue(rec)
	}
}

// buildRecordLocked composes the immutable Record. Caller must hold s.mu.
func (s *Span) buildRecordLocked() Record {
	attrsCopy := make(map[string]Attribute, len(s.attributes))
	for k, v := range s.attributes {
		attrsCopy[k] = v
	}
	var parentHex string
	if s.hasParent {
		parentHex = spanIDHex(s.parentSpanID)
	}
	var errorMessage string
	if s.status == StatusError {
		errorMessage = s.errorMessage
	}
	var serviceName, environment string
	if s.sink != nil {
		serviceName = s.sink.cfg.ServiceName
		environment = s.sink.cfg.Environment
	}
	return Record{
		SpanID:          spanIDHex(s.spanIDVal),
		TraceID:         s.traceID.HexEncoded(),
		ParentSpanID:    parentHex,
		Name:            s.name,
		Kind:            s.kind,
		Status:          s.status,
		StartTimeNS:     s.startTimeNS,
		EndTimeNS:       s.endTimeNS,
		ServiceName:     serviceName,
		Environment:     environment,
		Attributes:      attrsCopy,
		GPUAttributions: append([]gpu.Attribution(nil), s.gpuAttributions...),
		ErrorMessage:    errorMessage,
	}
}

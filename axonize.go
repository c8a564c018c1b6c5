// Package axonize is the public entry point: a small set of re-exports
// over ddtrace/tracer, so callers only ever import one package for the
// common path.
package axonize

import "github.com/Streamize-llc/axonize/ddtrace/tracer"

type (
	// Span is the hot-path unit of work; see ddtrace/tracer.Span.
	Span = tracer.Span
	// LLMSpan extends Span with token/TTFT/throughput bookkeeping.
	LLMSpan = tracer.LLMSpan
	// Config is the immutable SDK configuration.
	Config = tracer.Config
	// StartOption configures the SDK at Init time.
	StartOption = tracer.StartOption
	// SpanOption configures an individual span at creation time.
	SpanOption = tracer.SpanOption
	// Kind is one of {INTERNAL, CLIENT, SERVER}.
	Kind = tracer.Kind
	// Status is one of {UNSET, OK, ERROR}.
	Status = tracer.Status
)

const (
	KindInternal = tracer.KindInternal
	KindClient   = tracer.KindClient
	KindServer   = tracer.KindServer

	StatusUnset = tracer.StatusUnset
	StatusOK    = tracer.StatusOK
	StatusError = tracer.StatusError
)

var (
	// Init starts the SDK. See ddtrace/tracer.Init.
	Init = tracer.Init
	// Shutdown stops the SDK, flushing in-flight spans. See
	// ddtrace/tracer.Shutdown.
	Shutdown = tracer.Shutdown
	// Flush forces an immediate out-of-band drain+export.
	Flush = tracer.Flush

	// StartSpan starts a root span.
	StartSpan = tracer.StartSpan
	// StartSpanFromContext starts a span as a child of ctx's active span.
	StartSpanFromContext = tracer.StartSpanFromContext
	// ContextWithSpan returns a context carrying s as the active span.
	ContextWithSpan = tracer.ContextWithSpan
	// SpanFromContext returns ctx's active span, if any.
	SpanFromContext = tracer.SpanFromContext

	// StartLLMSpan starts a root or child LLM span.
	StartLLMSpan = tracer.StartLLMSpan

	// Trace wraps a callable with a function-scope span.
	Trace = tracer.Trace

	// WithEndpoint sets the collector endpoint to export to.
	WithEndpoint = tracer.WithEndpoint
	// WithServiceName sets the service.name resource attribute.
	WithServiceName = tracer.WithServiceName
	// WithEnvironment sets the deployment.environment resource attribute.
	WithEnvironment = tracer.WithEnvironment
	// WithBatchSize sets the maximum records drained per flush.
	WithBatchSize = tracer.WithBatchSize
	// WithFlushInterval sets how often the background processor drains.
	WithFlushInterval = tracer.WithFlushInterval
	// WithBufferSize sets the ring buffer capacity.
	WithBufferSize = tracer.WithBufferSize
	// WithSamplingRate sets the head-sampling rate in [0, 1].
	WithSamplingRate = tracer.WithSamplingRate
	// WithGPUProfiling enables the GPU identity+sampling subsystem.
	WithGPUProfiling = tracer.WithGPUProfiling
	// WithGPUSnapshotInterval sets the GPU sampler's polling interval.
	WithGPUSnapshotInterval = tracer.WithGPUSnapshotInterval
	// WithBearerCredential attaches a bearer credential to exports.
	WithBearerCredential = tracer.WithBearerCredential
	// WithExportTimeout bounds a single exporter send call.
	WithExportTimeout = tracer.WithExportTimeout

	// WithSpanKind overrides a span's default INTERNAL kind.
	WithSpanKind = tracer.WithSpanKind
)

// TraceValue wraps a callable that also returns a value; it cannot be a
// var re-export since Go forbids generic function values, so it is a thin
// wrapper instead.
func TraceValue[T any](name string, kind Kind, fn func() (T, error)) (T, error) {
	return tracer.TraceValue(name, kind, fn)
}

// Grounded on original_source/sdk-py/src/axonize/_types.py (SpanKind,
// SpanStatus, GPUAttribution, SpanData).
package tracer

import (
	"github.com/Streamize-llc/axonize/ddtrace/ext"
	"github.com/Streamize-llc/axonize/ddtrace/gpu"
)

// Kind is an alias of ext.SpanKind so callers can write tracer.KindServer
// without importing the ext package directly.
type Kind = ext.SpanKind

const (
	KindInternal = ext.SpanKindInternal
	KindClient   = ext.SpanKindClient
	KindServer   = ext.SpanKindServer
)

// Status is an alias of ext.SpanStatus.
type Status = ext.SpanStatus

const (
	StatusUnset = ext.StatusUnset
	StatusOK    = ext.StatusOK
	StatusError = ext.StatusError
)

// Attribute is a primitive scalar value attached to a span or carried in a
// finished Record. Only these four shapes are permitted; a caller passing
// anything else gets stringified (see Span.SetAttribute).
type Attribute struct {
	boolVal   bool
	intVal    int64
	floatVal  float64
	strVal    string
	kind      attrKind
}

type attrKind uint8

const (
	attrBool attrKind = iota
	attrInt
	attrFloat
	attrString
)

func boolAttr(v bool) Attribute    { return Attribute{kind: attrBool, boolVal: v} }
func intAttr(v int64) Attribute    { return Attribute{kind: attrInt, intVal: v} }
func floatAttr(v float64) Attribute { return Attribute{kind: attrFloat, floatVal: v} }
func stringAttr(v string) Attribute { return Attribute{kind: attrString, strVal: v} }

// IsBool, IsInt, IsFloat, IsString report the stored representation so the
// exporter can pick the matching OTLP AnyValue variant without a type
// switch on interface{}. Booleans are never conflated with integers.
func (a Attribute) IsBool() bool   { return a.kind == attrBool }
func (a Attribute) IsInt() bool    { return a.kind == attrInt }
func (a Attribute) IsFloat() bool  { return a.kind == attrFloat }
func (a Attribute) IsString() bool { return a.kind == attrString }

func (a Attribute) Bool() bool      { return a.boolVal }
func (a Attribute) Int() int64      { return a.intVal }
func (a Attribute) Float() float64  { return a.floatVal }
func (a Attribute) String() string  { return a.strVal }

// Record is the immutable snapshot produced once per completed span. Once
// constructed it is never mutated; the buffer, processor, and exporter only
// ever read it.
type Record struct {
	SpanID          string
	TraceID         string
	ParentSpanID    string // empty iff the span is a trace root
	Name            string
	Kind            Kind
	Status          Status
	StartTimeNS     int64
	EndTimeNS       int64
	ServiceName     string
	Environment     string
	Attributes      map[string]Attribute
	GPUAttributions []gpu.Attribution
	ErrorMessage    string // present iff Status == StatusError
}

// DurationMS derives the wall-clock duration of the span in milliseconds.
func (r Record) DurationMS() float64 {
	return float64(r.EndTimeNS-r.StartTimeNS) / 1e6
}

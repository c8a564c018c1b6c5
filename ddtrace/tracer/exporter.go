// Grounded on original_source/_exporter.py (the single export(batch) entry
// point called off the hot path, never raising) re-expressed over
// go.opentelemetry.io/collector/pdata's ptrace/ptraceotlp packages for the
// collector-style Resource/Scope/Span wire format.
package tracer

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/collector/pdata/ptrace/ptraceotlp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Streamize-llc/axonize/ddtrace/ext"
	"github.com/Streamize-llc/axonize/ddtrace/gpu"
	"github.com/Streamize-llc/axonize/internal/log"
)

// exporter serializes batches into OTLP traces and ships them over gRPC.
// It never raises: every failure path logs at debug and drops the batch.
type exporter struct {
	endpoint string
	bearer   string
	timeout  time.Duration

	mu     sync.Mutex
	conn   *grpc.ClientConn
	client ptraceotlp.GRPCClient
	closed bool
}

func newExporter(cfg Config) *exporter {
	return &exporter{
		endpoint: cfg.Endpoint,
		bearer:   cfg.BearerCredential,
		timeout:  cfg.ExportTimeout,
	}
}

// ensureClient lazily dials the collector endpoint on first use, so that
// Init never blocks on a network call.
func (e *exporter) ensureClient() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return nil
	}
	if e.closed {
		return fmt.Errorf("exporter: already shut down")
	}
	if e.endpoint == "" {
		return fmt.Errorf("exporter: no endpoint configured")
	}
	conn, err := grpc.NewClient(e.endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("exporter: dial %s: %w", e.endpoint, err)
	}
	e.conn = conn
	e.client = ptraceotlp.NewGRPCClient(conn)
	return nil
}

// export is the processor's handler. Empty batches are a no-op: no client
// is dialed and no network call is made.
func (e *exporter) export(records []Record) {
	if len(records) == 0 {
		return
	}
	if err := e.ensureClient(); err != nil {
		log.Debug("exporter: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	if e.bearer != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+e.bearer)
	}

	req := ptraceotlp.NewExportRequestFromTraces(buildTraces(records))
	if _, err := e.client.Export(ctx, req); err != nil {
		log.Debug("exporter: export failed: %v", err)
	}
}

// shutdown closes the underlying connection, if any. Idempotent.
func (e *exporter) shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.conn != nil {
		return e.conn.Close()
	}
	return nil
}

type resourceKey struct {
	serviceName string
	environment string
}

// buildTraces groups records by (service_name, environment) into separate
// ResourceSpans, each carrying one ScopeSpans named for this library.
func buildTraces(records []Record) ptrace.Traces {
	td := ptrace.NewTraces()
	groups := make(map[resourceKey]ptrace.ScopeSpans)

	for _, r := range records {
		key := resourceKey{r.ServiceName, r.Environment}
		scopeSpans, ok := groups[key]
		if !ok {
			rs := td.ResourceSpans().AppendEmpty()
			res := rs.Resource()
			res.Attributes().PutStr(ext.ResourceServiceName, r.ServiceName)
			res.Attributes().PutStr(ext.ResourceEnvironment, r.Environment)
			res.Attributes().PutStr(ext.ResourceSDKName, ext.SDKName)
			res.Attributes().PutStr(ext.ResourceSDKVersion, ext.SDKVersion)

			scopeSpans = rs.ScopeSpans().AppendEmpty()
			scopeSpans.Scope().SetName(ext.SDKName)
			scopeSpans.Scope().SetVersion(ext.SDKVersion)
			groups[key] = scopeSpans
		}
		fillSpan(scopeSpans.Spans().AppendEmpty(), r)
	}
	return td
}

func fillSpan(span ptrace.Span, r Record) {
	if tb, err := hex.DecodeString(r.TraceID); err == nil && len(tb) == 16 {
		var tid pcommon.TraceID
		copy(tid[:], tb)
		span.SetTraceID(tid)
	}
	if sb, err := hex.DecodeString(r.SpanID); err == nil && len(sb) == 8 {
		var sid pcommon.SpanID
		copy(sid[:], sb)
		span.SetSpanID(sid)
	}
	if r.ParentSpanID != "" {
		if pb, err := hex.DecodeString(r.ParentSpanID); err == nil && len(pb) == 8 {
			var pid pcommon.SpanID
			copy(pid[:], pb)
			span.SetParentSpanID(pid)
		}
	}

	span.SetName(r.Name)
	span.SetKind(mapKind(r.Kind))
	span.SetStartTimestamp(pcommon.NewTimestampFromTime(time.Unix(0, r.StartTimeNS)))
	span.SetEndTimestamp(pcommon.NewTimestampFromTime(time.Unix(0, r.EndTimeNS)))

	status := span.Status()
	status.SetCode(mapStatus(r.Status))
	if r.ErrorMessage != "" {
		status.SetMessage(r.ErrorMessage)
	}

	attrs := span.Attributes()
	attrs.PutDouble(ext.DurationMS, r.DurationMS())
	for k, v := range r.Attributes {
		switch {
		case v.IsBool():
			attrs.PutBool(k, v.Bool())
		case v.IsInt():
			attrs.PutInt(k, v.Int())
		case v.IsFloat():
			attrs.PutDouble(k, v.Float())
		default:
			attrs.PutStr(k, v.String())
		}
	}
	for i, g := range r.GPUAttributions {
		putGPUAttribution(attrs, i, g)
	}
}

func putGPUAttribution(attrs pcommon.Map, index int, g gpu.Attribution) {
	prefix := fmt.Sprintf("gpu.%d.", index)
	attrs.PutStr(prefix+ext.GPUResourceUUID, g.ResourceUUID)
	attrs.PutStr(prefix+ext.GPUPhysicalUUID, g.PhysicalGPUUUID)
	attrs.PutStr(prefix+ext.GPUModel, g.GPUModel)
	attrs.PutStr(prefix+ext.GPUVendor, g.Vendor)
	attrs.PutStr(prefix+ext.GPUNodeID, g.NodeID)
	attrs.PutStr(prefix+ext.GPUResourceType, g.ResourceType)
	attrs.PutStr(prefix+ext.GPUUserLabel, g.UserLabel)
	attrs.PutDouble(prefix+ext.GPUUtilization, g.Utilization)
	attrs.PutDouble(prefix+ext.GPUMemoryUsedGB, g.MemoryUsedGB)
	attrs.PutDouble(prefix+ext.GPUMemoryTotalGB, g.MemoryTotalGB)
	attrs.PutInt(prefix+ext.GPUTemperatureCelsius, int64(g.TemperatureCelsius))
	attrs.PutInt(prefix+ext.GPUPowerWatts, int64(g.PowerWatts))
	attrs.PutInt(prefix+ext.GPUClockMHz, int64(g.ClockMHz))
}

func mapKind(k Kind) ptrace.SpanKind {
	switch k {
	case KindClient:
		return ptrace.SpanKindClient
	case KindServer:
		return ptrace.SpanKindServer
	default:
		return ptrace.SpanKindInternal
	}
}

func mapStatus(s Status) ptrace.StatusCode {
	switch s {
	case StatusOK:
		return ptrace.StatusCodeOk
	case StatusError:
		return ptrace.StatusCodeError
	default:
		return ptrace.StatusCodeUnset
	}
}

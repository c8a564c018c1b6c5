// Package ext holds the attribute-key and enum vocabulary shared between
// the tracer and the wire exporter. Keeping these as constants, rather
// than inline string literals, is what lets llmspan.go and exporter.go agree
// on spelling without a schema file.
package ext

// SpanKind values.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindClient
	SpanKindServer
)

func (k SpanKind) String() string {
	switch k {
	case SpanKindClient:
		return "client"
	case SpanKindServer:
		return "server"
	default:
		return "internal"
	}
}

// SpanStatus values.
type SpanStatus int

const (
	StatusUnset SpanStatus = iota
	StatusOK
	StatusError
)

func (s SpanStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Resource attribute keys.
const (
	ResourceServiceName    = "service.name"
	ResourceEnvironment    = "deployment.environment"
	ResourceSDKName        = "telemetry.sdk.name"
	ResourceSDKVersion     = "telemetry.sdk.version"
)

// SDKName and SDKVersion identify this library on the wire.
const (
	SDKName    = "axonize"
	SDKVersion = "0.1.0"
)

// Span-level attribute keys.
const DurationMS = "axonize.duration_ms"

// GPU attribution attribute key suffixes; callers format these with the
// "gpu.<index>." prefix.
const (
	GPUResourceUUID       = "resource_uuid"
	GPUPhysicalUUID       = "physical_uuid"
	GPUModel              = "model"
	GPUVendor             = "vendor"
	GPUNodeID             = "node_id"
	GPUResourceType       = "resource_type"
	GPUUserLabel          = "user_label"
	GPUUtilization        = "utilization"
	GPUMemoryUsedGB       = "memory_used_gb"
	GPUMemoryTotalGB      = "memory_total_gb"
	GPUTemperatureCelsius = "temperature_celsius"
	GPUPowerWatts         = "power_watts"
	GPUClockMHz           = "clock_mhz"
)

// LLM attribute keys.
const (
	LLMModelName       = "ai.model.name"
	LLMModelVersion    = "ai.model.version"
	LLMInferenceType   = "ai.inference.type"
	LLMTokensInput     = "ai.llm.tokens.input"
	LLMTokensOutput    = "ai.llm.tokens.output"
	LLMTTFTMs          = "ai.llm.ttft_ms"
	LLMTokensPerSecond = "ai.llm.tokens_per_second"
)

// DefaultInferenceType is the value set for LLMInferenceType unless a caller
// overrides it via Span.SetAttribute.
const DefaultInferenceType = "llm"

// Resource type labels produced by GPU backends.
const (
	ResourceTypeFullGPU = "full_gpu"
)

// Vendor names.
const (
	VendorNVIDIA = "NVIDIA"
	VendorApple  = "Apple"
	VendorMock   = "Mock"
)

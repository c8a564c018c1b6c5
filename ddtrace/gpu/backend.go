// Package gpu implements the vendor-neutral GPU backend contract and the
// identity-resolving profiler that attributes spans to physical and
// virtualized GPU resources.
//
// Grounded on original_source/sdk-py/src/axonize/_gpu_backend.py (the
// GPUBackend protocol and DiscoveredGPU/_GPUSnapshot dataclasses), with
// NVML call shapes taken from
// aleksandr-podmoskovniy-gpu-control-plane/src/gfd-extender/pkg/detect/nvml_linux.go.
package gpu

// Snapshot is a mutable per-resource metric sample, overwritten atomically
// by the sampler loop and read by Profiler.ResolveLabels.
type Snapshot struct {
	MemoryUsedGB       float64
	Utilization        float64
	TemperatureCelsius int
	PowerWatts         int
	ClockMHz           int
}

// DiscoveredGPU is a device found by Backend.Discover, carrying the
// 3-layer identity plus the backend-specific handle used for Collect.
type DiscoveredGPU struct {
	ResourceUUID  string
	PhysicalUUID  string
	ResourceType  string // "full_gpu", "mig_40gb", etc.
	UserLabel     string // "cuda:0", "mps:0"
	Model         string
	Vendor        string
	NodeID        string
	MemoryTotalGB float64
	Handle        any
}

// Attribution is the immutable GPU identity+metrics record attached to a
// finished span.
type Attribution struct {
	ResourceUUID       string
	PhysicalGPUUUID    string
	GPUModel           string
	Vendor             string
	NodeID             string
	ResourceType       string
	UserLabel          string
	MemoryUsedGB       float64
	MemoryTotalGB      float64
	Utilization        float64
	TemperatureCelsius int
	PowerWatts         int
	ClockMHz           int
}

// Backend is the vendor-neutral discovery + metric-collect contract.
// Implementations: NVIDIA (nvml.go), Apple Silicon (apple_darwin.go /
// apple_stub.go), and Mock (mock.go) for tests.
type Backend interface {
	// Vendor returns the backend's vendor name, e.g. "NVIDIA".
	Vendor() string
	// Discover enumerates devices available to this backend.
	Discover() ([]DiscoveredGPU, error)
	// Collect returns a fresh metric snapshot for the given handle.
	Collect(handle any) (Snapshot, error)
	// Shutdown releases any backend-held resources. Idempotent.
	Shutdown() error
}

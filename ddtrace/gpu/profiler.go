// Grounded on original_source/sdk-py/src/axonize/_gpu.py (the
// label_to_resource/resource_to_physical/gpu_info/snapshots map layout and
// the backend factory fallthrough order) with the sampler loop's pacing
// built on golang.org/x/time/rate for periodic background work.
package gpu

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/Streamize-llc/axonize/internal/log"
)

// Profiler resolves device labels to GPU attribution records and runs a
// background sampler that keeps per-resource snapshots fresh. Its
// label/resource/static-info maps are built once at construction and never
// mutated afterward, so ResolveLabels needs no locking on its hot path.
type Profiler struct {
	backend Backend

	labelToResource    map[string]string
	resourceToPhysical map[string]string
	gpuInfo            map[string]DiscoveredGPU
	handles            map[string]any
	snapshots          map[string]*atomic.Pointer[Snapshot]

	snapshotInterval time.Duration
	running          atomic.Bool
	stopCh           chan struct{}
	doneCh           chan struct{}
}

// NewProfiler discovers devices on backend and builds the static identity
// maps. The sampler is not started; call Start explicitly.
func NewProfiler(backend Backend, snapshotInterval time.Duration) (*Profiler, error) {
	devices, err := backend.Discover()
	if err != nil {
		return nil, err
	}

	p := &Profiler{
		backend:             backend,
		labelToResource:     make(map[string]string, len(devices)),
		resourceToPhysical:  make(map[string]string, len(devices)),
		gpuInfo:             make(map[string]DiscoveredGPU, len(devices)),
		handles:             make(map[string]any, len(devices)),
		snapshots:           make(map[string]*atomic.Pointer[Snapshot], len(devices)),
		snapshotInterval:    snapshotInterval,
	}
	for _, d := range devices {
		p.labelToResource[d.UserLabel] = d.ResourceUUID
		p.resourceToPhysical[d.ResourceUUID] = d.PhysicalUUID
		p.gpuInfo[d.ResourceUUID] = d
		p.handles[d.ResourceUUID] = d.Handle
		ptr := &atomic.Pointer[Snapshot]{}
		ptr.Store(&Snapshot{})
		p.snapshots[d.ResourceUUID] = ptr
	}
	return p, nil
}

// DiscoverProfiler tries backends in priority order: NVIDIA first, then
// (on macOS/ARM64 only) Apple Silicon. Returns an error if none are
// available; callers should treat that as "GPU calls become no-ops", not
// as a fatal condition.
func DiscoverProfiler(snapshotInterval time.Duration) (*Profiler, error) {
	backend, err := NewNVMLBackend()
	if err != nil {
		log.Debug("gpu: nvml backend unavailable: %v", err)
		if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
			backend, err = NewAppleBackend()
		}
	}
	if err != nil || backend == nil {
		return nil, errors.New("gpu: no backend available")
	}
	return NewProfiler(backend, snapshotInterval)
}

// ResolveLabels is the hot path called from Span.SetGPUs. Unknown labels
// are skipped silently, never returned as an error.
func (p *Profiler) ResolveLabels(labels []string) []Attribution {
	if len(labels) == 0 {
		return nil
	}
	out := make([]Attribution, 0, len(labels))
	for _, label := range labels {
		resourceUUID, ok := p.labelToResource[label]
		if !ok {
			continue
		}
		info := p.gpuInfo[resourceUUID]
		var snap Snapshot
		if ptr := p.snapshots[resourceUUID]; ptr != nil {
			if s := ptr.Load(); s != nil {
				snap = *s
			}
		}
		out = append(out, Attribution{
			ResourceUUID:       resourceUUID,
			PhysicalGPUUUID:    info.PhysicalUUID,
			GPUModel:           info.Model,
			Vendor:             info.Vendor,
			NodeID:             info.NodeID,
			ResourceType:       info.ResourceType,
			UserLabel:          info.UserLabel,
			MemoryUsedGB:       snap.MemoryUsedGB,
			MemoryTotalGB:      info.MemoryTotalGB,
			Utilization:        snap.Utilization,
			TemperatureCelsius: snap.TemperatureCelsius,
			PowerWatts:         snap.PowerWatts,
			ClockMHz:           snap.ClockMHz,
		})
	}
	return out
}

// Start launches the daemon sampler loop. Idempotent: a second call while
// already running is a no-op.
func (p *Profiler) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.loop()
}

func (p *Profiler) loop() {
	defer close(p.doneCh)

	interval := p.snapshotInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(context.Background()); err != nil {
			return
		}
		// jitter up to 20% of the interval, so concurrent profiler
		// instances (tests, multi-tenant hosts) don't lockstep.
		jitter := time.Duration(rand.Int63n(int64(interval)/5 + 1))
		select {
		case <-time.After(jitter):
		case <-p.stopCh:
			return
		}

		select {
		case <-p.stopCh:
			return
		default:
		}
		p.sampleOnce()
	}
}

// sampleOnce collects a fresh snapshot per known resource. A failing
// collect is logged at debug and skipped; it never stops the loop, so the
// next interval retries implicitly.
func (p *Profiler) sampleOnce() {
	for resourceUUID, handle := range p.handles {
		snap, err := p.backend.Collect(handle)
		if err != nil {
			log.Debug("gpu: collect failed for %s: %v", resourceUUID, err)
			continue
		}
		p.snapshots[resourceUUID].Store(&snap)
	}
}

// Stop signals the sampler and waits up to 2 seconds for it to exit, then
// shuts down the backend. Idempotent.
func (p *Profiler) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)
	select {
	case <-p.doneCh:
	case <-time.After(2 * time.Second):
	}
	if err := p.backend.Shutdown(); err != nil {
		log.Debug("gpu: backend shutdown: %v", err)
	}
}

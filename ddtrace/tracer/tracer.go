// Grounded on original_source/_sdk.py (process-wide singleton, Start/Stop
// lifecycle, noop fallback when uninitialized) and the teacher's
// surviving globaltracer_test.go/tracer_test.go start/stop ordering
// assertions.
package tracer

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Streamize-llc/axonize/ddtrace/gpu"
	"github.com/Streamize-llc/axonize/internal/log"
)

// runtimeState is the immutable snapshot of everything a live Span needs
// to resolve sampling, attribution, and emission. The zero-value state
// (buf == nil, profiler == nil) is the noop facade: spans still carry
// correct parent/trace linkage, they simply never enqueue a record.
type runtimeState struct {
	cfg       Config
	buf       *ringBuffer
	profiler  *gpu.Profiler
	processor *processor
	exporter  *exporter
}

var activeState atomic.Pointer[runtimeState]

var shutdownOnce sync.Once

func init() {
	activeState.Store(&runtimeState{cfg: defaultConfig()})
}

func currentState() *runtimeState { return activeState.Load() }

// Init starts the SDK: builds the buffer, exporter, processor, and
// (if enabled) the GPU profiler, and starts the background workers.
// Re-init first shuts down any previously running state. Init never
// returns an error to the caller; a failure to construct the exporter's
// transport degrades to an exporter that logs and drops on every send,
// since observability must never block application startup.
func Init(opts ...StartOption) {
	cfg := newConfig(opts...)
	Shutdown()

	buf := newRingBuffer(cfg.BufferSize)
	exp := newExporter(cfg)
	proc := newProcessor(buf, cfg.BatchSize, cfg.FlushInterval, exp.export)

	var prof *gpu.Profiler
	if cfg.GPUProfiling {
		p, err := gpu.DiscoverProfiler(cfg.GPUSnapshotInterval)
		if err != nil {
			log.Debug("tracer: gpu profiling requested but unavailable: %v", err)
		} else {
			prof = p
		}
	}

	proc.start()
	if prof != nil {
		prof.Start()
	}

	activeState.Store(&runtimeState{
		cfg:       cfg,
		buf:       buf,
		profiler:  prof,
		processor: proc,
		exporter:  exp,
	})

	registerShutdownHook()
}

// Shutdown stops all children in reverse construction order (profiler ->
// processor -> exporter -> buffer) and resets the facade to its noop
// state. Idempotent: calling it when already uninitialized is a no-op.
func Shutdown() {
	state := activeState.Swap(&runtimeState{cfg: defaultConfig()})
	if state == nil {
		return
	}
	if state.profiler != nil {
		state.profiler.Stop()
	}
	if state.processor != nil {
		state.processor.stop()
	}
	if state.exporter != nil {
		if err := state.exporter.shutdown(); err != nil {
			log.Debug("tracer: exporter shutdown: %v", err)
		}
	}
	// the buffer has no background resources to release; its remaining
	// contents were already drained by the processor's final flush.
}

// registerShutdownHook installs a best-effort SIGINT/SIGTERM handler that
// flushes in-flight spans before the process exits: after Shutdown it stops
// intercepting and re-delivers the signal to the process. Installed once
// per process; re-Init does not re-register.
func registerShutdownHook() {
	shutdownOnce.Do(func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			Shutdown()
			signal.Stop(sigCh)
			if p, err := os.FindProcess(os.Getpid()); err == nil {
				_ = p.Signal(sig)
			}
		}()
	})
}

// StartSpan starts a root span with no parent context. Prefer
// StartSpanFromContext when a parent may be available.
func StartSpan(name string, opts ...SpanOption) *Span {
	return startSpan(name, nil, opts...)
}

// Flush forces an immediate drain+export of whatever is currently
// buffered, bypassing the flush interval. Intended for tests and
// short-lived processes (e.g. CLI tools) that need a deterministic flush
// point instead of waiting on the periodic timer.
func Flush(timeout time.Duration) {
	state := currentState()
	if state == nil || state.processor == nil {
		return
	}
	state.processor.flushNow(timeout)
}

//go:build darwin && arm64

// Grounded on original_source/sdk-py/src/axonize/_gpu_apple.py (single
// device, sha256-derived identity, delta-sampled energy counter) and
// golang.org/x/sys/unix's Sysctl wrappers for reading the machine's chip
// model and IOKit-exposed power counters.
package gpu

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// appleBackend is the single-device Apple Silicon backend. Apple Silicon
// exposes one unified GPU per chip, so Discover always yields exactly one
// DiscoveredGPU.
type appleBackend struct {
	resourceUUID string
	chipModel    string
	lastSampleAt time.Time
	lastEnergyJ  float64
}

// NewAppleBackend builds the backend by reading the chip model via sysctl
// and deriving a stable identity from it.
func NewAppleBackend() (Backend, error) {
	model, err := unix.Sysctl("machdep.cpu.brand_string")
	if err != nil || model == "" {
		model, err = unix.Sysctl("hw.model")
		if err != nil {
			return nil, fmt.Errorf("apple: read chip model: %w", err)
		}
	}
	return &appleBackend{chipModel: model}, nil
}

func (b *appleBackend) Vendor() string { return "Apple" }

func (b *appleBackend) Discover() ([]DiscoveredGPU, error) {
	hostname, _ := os.Hostname()
	sum := sha256.Sum256([]byte(b.chipModel + hostname))
	uuid := "APPLE-" + hex.EncodeToString(sum[:])[:12]
	b.resourceUUID = uuid

	return []DiscoveredGPU{{
		ResourceUUID:  uuid,
		PhysicalUUID:  uuid,
		ResourceType:  "full_gpu",
		UserLabel:     "mps:0",
		Model:         b.chipModel,
		Vendor:        b.Vendor(),
		NodeID:        hostname,
		MemoryTotalGB: appleUnifiedMemoryGB(),
		Handle:        uuid,
	}}, nil
}

func (b *appleBackend) Collect(handle any) (Snapshot, error) {
	now := time.Now()
	energyJ, err := readGPUEnergyJoules()
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Utilization: 0,
	}
	if !b.lastSampleAt.IsZero() {
		elapsed := now.Sub(b.lastSampleAt).Seconds()
		if elapsed > 0 {
			deltaJ := energyJ - b.lastEnergyJ
			if deltaJ < 0 {
				deltaJ = 0
			}
			snap.PowerWatts = int(deltaJ / elapsed)
		}
	}
	b.lastSampleAt = now
	b.lastEnergyJ = energyJ
	return snap, nil
}

func (b *appleBackend) Shutdown() error { return nil }

// appleUnifiedMemoryGB reads the system's unified memory size.
func appleUnifiedMemoryGB() float64 {
	bytes, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return float64(bytes) / (1024 * 1024 * 1024)
}

// readGPUEnergyJoules reads the cumulative GPU energy counter exposed by
// IOKit's power-metrics subsystem and normalizes it to joules via
// energyRawToJoules. The counter and its unit label are read as two
// separate sysctl nodes because IOReport channels carry the unit
// alongside the raw value rather than in a fixed, hardcoded scale.
func readGPUEnergyJoules() (float64, error) {
	raw, err := unix.SysctlUint64("kern.gpu_energy_raw")
	if err != nil {
		// Older/newer revisions may not expose this node; treat as zero
		// energy rather than failing the whole snapshot.
		return 0, nil
	}
	unit, err := unix.Sysctl("kern.gpu_energy_unit")
	if err != nil {
		unit = ""
	}
	return energyRawToJoules(raw, unit), nil
}

// energyRawToJoules converts an IOReport raw energy value to joules based
// on its unit label (mJ, uJ/µJ, or nJ). An unrecognized or missing unit
// is treated as mJ, the most common scale on Apple Silicon.
func energyRawToJoules(raw uint64, unit string) float64 {
	switch {
	case strings.HasPrefix(unit, "m"):
		return float64(raw) / 1e3
	case strings.HasPrefix(unit, "u") || strings.HasPrefix(unit, "µ"):
		return float64(raw) / 1e6
	case strings.HasPrefix(unit, "n"):
		return float64(raw) / 1e9
	default:
		return float64(raw) / 1e3
	}
}

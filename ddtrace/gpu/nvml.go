// Grounded on original_source/sdk-py/src/axonize/_gpu_nvml.py (discovery +
// collect shape, MIG fan-out loop bounded at 7 partitions per card) and
// aleksandr-podmoskovniy-gpu-control-plane/src/gfd-extender/pkg/detect/nvml_linux.go
// (the go-nvml call conventions: Init/Shutdown, *Get* returning (value, ret)
// with ret checked against nvml.SUCCESS).
package gpu

import (
	"fmt"
	"os"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// maxMIGPartitions bounds the MIG fan-out per physical card.
const maxMIGPartitions = 7

// nvmlBackend is the real NVIDIA backend, backed by github.com/NVIDIA/go-nvml.
type nvmlBackend struct {
	shutdown bool
}

// NewNVMLBackend initializes NVML and returns a Backend, or an error if the
// NVML shared library is unavailable. A missing backend is a normal outcome
// for the caller to fall through on, not a fatal error.
func NewNVMLBackend() (Backend, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("nvml: initialize: %s", nvml.ErrorString(ret))
	}
	return &nvmlBackend{}, nil
}

func (b *nvmlBackend) Vendor() string { return "NVIDIA" }

func (b *nvmlBackend) Discover() ([]DiscoveredGPU, error) {
	nodeID, _ := os.Hostname()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("nvml: get device count: %s", nvml.ErrorString(ret))
	}

	var gpus []DiscoveredGPU
	cudaIdx := 0
	for i := 0; i < count; i++ {
		dev, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			continue
		}
		uuid, _ := dev.GetUUID()
		model, _ := dev.GetName()
		memTotalGB := 0.0
		if mem, ret := dev.GetMemoryInfo(); ret == nvml.SUCCESS {
			memTotalGB = float64(mem.Total) / (1024 * 1024 * 1024)
		}

		migEnabled := false
		if mode, _, ret := dev.GetMigMode(); ret == nvml.SUCCESS && mode == nvml.DEVICE_MIG_ENABLE {
			migEnabled = true
			for j := 0; j < maxMIGPartitions; j++ {
				migDev, ret := dev.GetMigDeviceHandleByIndex(j)
				if ret != nvml.SUCCESS {
					break
				}
				migUUID, _ := migDev.GetUUID()
				migMemGB := 0.0
				if mem, ret := migDev.GetMemoryInfo(); ret == nvml.SUCCESS {
					migMemGB = float64(mem.Total) / (1024 * 1024 * 1024)
				}
				label := fmt.Sprintf("cuda:%d", cudaIdx)
				gpus = append(gpus, DiscoveredGPU{
					ResourceUUID:  migUUID,
					PhysicalUUID:  uuid,
					ResourceType:  fmt.Sprintf("mig_%dgb", int(migMemGB)),
					UserLabel:     label,
					Model:         model,
					Vendor:        b.Vendor(),
					NodeID:        nodeID,
					MemoryTotalGB: migMemGB,
					Handle:        migDev,
				})
				cudaIdx++
			}
		}

		if !migEnabled {
			label := fmt.Sprintf("cuda:%d", cudaIdx)
			gpus = append(gpus, DiscoveredGPU{
				ResourceUUID:  uuid,
				PhysicalUUID:  uuid,
				ResourceType:  "full_gpu",
				UserLabel:     label,
				Model:         model,
				Vendor:        b.Vendor(),
				NodeID:        nodeID,
				MemoryTotalGB: memTotalGB,
				Handle:        dev,
			})
			cudaIdx++
		}
	}
	return gpus, nil
}

func (b *nvmlBackend) Collect(handle any) (Snapshot, error) {
	dev, ok := handle.(nvml.Device)
	if !ok {
		return Snapshot{}, fmt.Errorf("nvml: collect: unexpected handle type %T", handle)
	}
	var snap Snapshot
	if mem, ret := dev.GetMemoryInfo(); ret == nvml.SUCCESS {
		snap.MemoryUsedGB = float64(mem.Used) / (1024 * 1024 * 1024)
	}
	if util, ret := dev.GetUtilizationRates(); ret == nvml.SUCCESS {
		snap.Utilization = float64(util.Gpu)
	}
	if temp, ret := dev.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		snap.TemperatureCelsius = int(temp)
	}
	if mw, ret := dev.GetPowerUsage(); ret == nvml.SUCCESS {
		snap.PowerWatts = int(mw / 1000) // mW -> W
	}
	if clock, ret := dev.GetClockInfo(nvml.CLOCK_SM); ret == nvml.SUCCESS {
		snap.ClockMHz = int(clock)
	}
	return snap, nil
}

func (b *nvmlBackend) Shutdown() error {
	if b.shutdown {
		return nil
	}
	b.shutdown = true
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return fmt.Errorf("nvml: shutdown: %s", nvml.ErrorString(ret))
	}
	return nil
}

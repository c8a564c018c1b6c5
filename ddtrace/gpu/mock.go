package gpu

import (
	"fmt"

	"github.com/google/uuid"
)

// mockUUIDNamespace scopes the deterministic UUIDs NewMockBackend derives
// for card/partition identities, so two mocks built from the same
// (card, partition) coordinates always agree on resource/physical UUIDs
// without needing a shared counter or real hardware.
var mockUUIDNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("axonize.gpu.mock"))

// MockBackend is a deterministic, in-memory Backend used by tests that need
// to exercise identity resolution (MIG fan-out, snapshot wiring) without
// real hardware. Grounded on original_source/sdk-py/src/axonize/_gpu.py's
// MockGPUProfiler, exercised by original_source/sdk-py/tests/test_gpu_backend.py.
type MockBackend struct {
	devices   []DiscoveredGPU
	snapshots map[string]Snapshot // keyed by resource_uuid
	shutdown  bool
}

// NewMockBackend builds a mock with physicalCards cards, each split into
// partitionsPerCard logical resources (partitionsPerCard == 1 means a full,
// unpartitioned card). Physical and resource UUIDs are deterministic
// (name-based, RFC 4122 version 5) so repeated calls with the same
// dimensions reproduce identical identities across test runs.
func NewMockBackend(physicalCards, partitionsPerCard int) *MockBackend {
	m := &MockBackend{snapshots: make(map[string]Snapshot)}
	cudaIdx := 0
	for card := 0; card < physicalCards; card++ {
		physicalUUID := uuid.NewSHA1(mockUUIDNamespace, []byte(fmt.Sprintf("card-%d", card))).String()
		resourceType := "full_gpu"
		if partitionsPerCard > 1 {
			resourceType = fmt.Sprintf("mig_%dgb", 40/partitionsPerCard)
		}
		for p := 0; p < partitionsPerCard; p++ {
			resourceUUID := physicalUUID
			if partitionsPerCard > 1 {
				resourceUUID = uuid.NewSHA1(mockUUIDNamespace, []byte(fmt.Sprintf("card-%d-mig-%d", card, p))).String()
			}
			dev := DiscoveredGPU{
				ResourceUUID:  resourceUUID,
				PhysicalUUID:  physicalUUID,
				ResourceType:  resourceType,
				UserLabel:     fmt.Sprintf("cuda:%d", cudaIdx),
				Model:         "Mock-GPU",
				Vendor:        "Mock",
				NodeID:        "mock-node",
				MemoryTotalGB: 40.0 / float64(partitionsPerCard),
				Handle:        resourceUUID,
			}
			m.devices = append(m.devices, dev)
			m.snapshots[resourceUUID] = Snapshot{}
			cudaIdx++
		}
	}
	return m
}

func (m *MockBackend) Vendor() string { return "Mock" }

func (m *MockBackend) Discover() ([]DiscoveredGPU, error) {
	return m.devices, nil
}

func (m *MockBackend) Collect(handle any) (Snapshot, error) {
	resourceUUID, ok := handle.(string)
	if !ok {
		return Snapshot{}, fmt.Errorf("mock: unexpected handle type %T", handle)
	}
	snap, ok := m.snapshots[resourceUUID]
	if !ok {
		return Snapshot{}, fmt.Errorf("mock: unknown handle %q", resourceUUID)
	}
	return snap, nil
}

// SetSnapshot lets a test drive Collect's return value for a resource
// without waiting on the profiler's sampler loop.
func (m *MockBackend) SetSnapshot(resourceUUID string, snap Snapshot) {
	m.snapshots[resourceUUID] = snap
}

func (m *MockBackend) Shutdown() error {
	m.shutdown = true
	return nil
}

// ShutdownCalled reports whether Shutdown has run, for test assertions.
func (m *MockBackend) ShutdownCalled() bool { return m.shutdown }

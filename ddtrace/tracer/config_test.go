package tracer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := defaultConfig()
	assert.Equal(t, 512, c.BatchSize)
	assert.Equal(t, 5000*time.Millisecond, c.FlushInterval)
	assert.Equal(t, 8192, c.BufferSize)
	assert.Equal(t, 1.0, c.SamplingRate)
	assert.False(t, c.GPUProfiling)
	assert.Equal(t, 100*time.Millisecond, c.GPUSnapshotInterval)
}

func TestNewConfigAppliesOptions(t *testing.T) {
	c := newConfig(
		WithEndpoint("collector:4317"),
		WithServiceName("svc"),
		WithEnvironment("prod"),
		WithBatchSize(10),
		WithSamplingRate(2.0), // clamps to 1.0
		WithGPUProfiling(true),
		WithBearerCredential("tok"),
	)
	assert.Equal(t, "collector:4317", c.Endpoint)
	assert.Equal(t, "svc", c.ServiceName)
	assert.Equal(t, "prod", c.Environment)
	assert.Equal(t, 10, c.BatchSize)
	assert.Equal(t, 1.0, c.SamplingRate)
	assert.True(t, c.GPUProfiling)
	assert.Equal(t, "tok", c.BearerCredential)
}

func TestSamplingRateClampsBelowZero(t *testing.T) {
	c := newConfig(WithSamplingRate(-1))
	assert.Equal(t, 0.0, c.SamplingRate)
}

func TestZeroOptionsIgnored(t *testing.T) {
	c := newConfig(WithBatchSize(0), WithBufferSize(-5), WithFlushInterval(0))
	assert.Equal(t, 512, c.BatchSize)
	assert.Equal(t, 8192, c.BufferSize)
	assert.Equal(t, 5000*time.Millisecond, c.FlushInterval)
}

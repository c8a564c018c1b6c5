// Grounded on original_source/sdk-py/src/axonize/_config.py (field list and
// defaults) and ddtrace/tracer/option_test.go's functional-option idiom
// (StartOption/Option constructors).
package tracer

import "time"

// Config is the immutable SDK configuration, created once at Init and never
// mutated afterward.
type Config struct {
	Endpoint            string
	ServiceName         string
	Environment         string
	BatchSize           int
	FlushInterval       time.Duration
	BufferSize          int
	SamplingRate        float64
	GPUProfiling        bool
	GPUSnapshotInterval time.Duration
	BearerCredential    string
	// ExportTimeout bounds a single exporter send call.
	ExportTimeout time.Duration
}

// defaultConfig returns the documented defaults.
func defaultConfig() Config {
	return Config{
		Environment:         "development",
		BatchSize:           512,
		FlushInterval:       5000 * time.Millisecond,
		BufferSize:          8192,
		SamplingRate:        1.0,
		GPUProfiling:        false,
		GPUSnapshotInterval: 100 * time.Millisecond,
		ExportTimeout:       10 * time.Second,
	}
}

// StartOption configures the SDK at Init time: functional options over an
// internal config struct rather than a wide constructor.
type StartOption func(*Config)

// WithEndpoint sets the collector endpoint to export to.
func WithEndpoint(endpoint string) StartOption {
	return func(c *Config) { c.Endpoint = endpoint }
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) StartOption {
	return func(c *Config) { c.ServiceName = name }
}

// WithEnvironment sets the deployment.environment resource attribute.
func WithEnvironment(env string) StartOption {
	return func(c *Config) { c.Environment = env }
}

// WithBatchSize sets the maximum number of records drained per flush.
func WithBatchSize(n int) StartOption {
	return func(c *Config) {
		if n > 0 {
			c.BatchSize = n
		}
	}
}

// WithFlushInterval sets how often the background processor drains.
func WithFlushInterval(d time.Duration) StartOption {
	return func(c *Config) {
		if d > 0 {
			c.FlushInterval = d
		}
	}
}

// WithBufferSize sets the ring buffer capacity.
func WithBufferSize(n int) StartOption {
	return func(c *Config) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}

// WithSamplingRate sets the head-sampling rate in [0, 1].
func WithSamplingRate(rate float64) StartOption {
	return func(c *Config) {
		switch {
		case rate < 0:
			c.SamplingRate = 0
		case rate > 1:
			c.SamplingRate = 1
		default:
			c.SamplingRate = rate
		}
	}
}

// WithGPUProfiling enables the GPU identity+sampling subsystem.
func WithGPUProfiling(enabled bool) StartOption {
	return func(c *Config) { c.GPUProfiling = enabled }
}

// WithGPUSnapshotInterval sets the GPU sampler's polling interval.
func WithGPUSnapshotInterval(d time.Duration) StartOption {
	return func(c *Config) {
		if d > 0 {
			c.GPUSnapshotInterval = d
		}
	}
}

// WithBearerCredential attaches a bearer credential to every export call.
func WithBearerCredential(token string) StartOption {
	return func(c *Config) { c.BearerCredential = token }
}

// WithExportTimeout bounds a single exporter send call.
func WithExportTimeout(d time.Duration) StartOption {
	return func(c *Config) {
		if d > 0 {
			c.ExportTimeout = d
		}
	}
}

func newConfig(opts ...StartOption) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

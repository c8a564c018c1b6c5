// Grounded on original_source/_processor.py (periodic flush ticker owned
// by a background worker, draining into a handler, plus a final flush on
// stop), adapted here to drain the bounded ring buffer rather than an
// unbounded payload buffer.
package tracer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Streamize-llc/axonize/internal/log"
)

// processor periodically drains the ring buffer in batches and hands them
// to a handler (normally the exporter's export method). The handler runs
// off the producer hot path entirely.
type processor struct {
	buf           *ringBuffer
	batchSize     int
	flushInterval time.Duration
	handler       func([]Record)

	mu      sync.Mutex // serializes drains against concurrent flushNow calls
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newProcessor(buf *ringBuffer, batchSize int, flushInterval time.Duration, handler func([]Record)) *processor {
	return &processor{
		buf:           buf,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		handler:       handler,
	}
}

// start launches the daemon drain loop. Idempotent.
func (p *processor) start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.loop()
}

func (p *processor) loop() {
	defer close(p.doneCh)
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			p.finalFlush()
			return
		case <-ticker.C:
			p.drainAndHandle()
		}
	}
}

// drainAndHandle drains a single batch and hands it to the handler. A
// handler panic is caught and logged; the loop keeps running.
func (p *processor) drainAndHandle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	records := p.buf.drain(p.batchSize)
	if len(records) == 0 {
		return
	}
	p.safeHandle(records)
}

// finalFlush drains the buffer to empty, looping over batch_size chunks,
// so that shutdown observes every record enqueued before the call.
func (p *processor) finalFlush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		records := p.buf.drain(p.batchSize)
		if len(records) == 0 {
			return
		}
		p.safeHandle(records)
	}
}

func (p *processor) safeHandle(records []Record) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tracer: processor handler panicked: %v", r)
		}
	}()
	p.handler(records)
}

// stop signals the loop and waits up to 5 seconds for its final flush to
// complete. Idempotent: a second call, or a call when never started, is a
// no-op.
func (p *processor) stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)
	select {
	case <-p.doneCh:
	case <-time.After(5 * time.Second):
	}
}

// flushNow performs one immediate out-of-band drain+handoff, bounded by
// timeout, without touching the periodic loop's schedule.
func (p *processor) flushNow(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		p.drainAndHandle()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

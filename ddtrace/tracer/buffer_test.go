package tracer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func recordNamed(name string) Record {
	return Record{Name: name}
}

func TestRingBufferPushOne(t *testing.T) {
	b := newRingBuffer(4)
	assert.Equal(t, 0, b.len())
	b.enqueue(recordNamed("a"))
	assert.Equal(t, 1, b.len())
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	// S3: capacity 3, enqueue a,b,c,d -> drop_count=1, survivors [b,c,d].
	b := newRingBuffer(3)
	for _, n := range []string{"a", "b", "c", "d"} {
		b.enqueue(recordNamed(n))
	}
	assert.EqualValues(t, 1, b.drops())
	got := b.drain(10)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "d"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestRingBufferDrainFIFOOrder(t *testing.T) {
	b := newRingBuffer(10)
	for _, n := range []string{"a", "b", "c"} {
		b.enqueue(recordNamed(n))
	}
	got := b.drain(2)
	assert.Equal(t, []string{"a", "b"}, []string{got[0].Name, got[1].Name})
	assert.Equal(t, 1, b.len())
	rest := b.drain(10)
	assert.Equal(t, "c", rest[0].Name)
}

func TestRingBufferDrainEmpty(t *testing.T) {
	b := newRingBuffer(4)
	assert.Nil(t, b.drain(10))
}

func TestRingBufferConcurrentProducers(t *testing.T) {
	// S6: 4 producers x 500 records into capacity 10000 -> exactly 2000
	// records drained, drop_count == 0.
	b := newRingBuffer(10000)
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				b.enqueue(recordNamed("x"))
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 0, b.drops())
	got := b.drain(10000)
	assert.Len(t, got, 2000)
}

func TestRingBufferEnqueueAcrossWraparound(t *testing.T) {
	b := newRingBuffer(3)
	b.enqueue(recordNamed("a"))
	b.enqueue(recordNamed("b"))
	_ = b.drain(1) // removes "a", start advances
	b.enqueue(recordNamed("c"))
	b.enqueue(recordNamed("d")) // should not overflow: only 3 logical items
	got := b.drain(10)
	assert.Equal(t, []string{"b", "c", "d"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.EqualValues(t, 0, b.drops())
}

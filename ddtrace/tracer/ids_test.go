package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDHexEncoded(t *testing.T) {
	id := newTraceID()
	assert.Len(t, id.HexEncoded(), 32)
}

func TestTraceIDUpperLowerRoundTrip(t *testing.T) {
	var id traceID
	id.setUpper(0x0102030405060708)
	id.setLower(0x0908070605040302)
	assert.Equal(t, uint64(0x0102030405060708), id.Upper())
	assert.Equal(t, uint64(0x0908070605040302), id.Lower())
}

func TestNewSpanIDNonZeroAndDistinct(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id := newSpanID()
		assert.NotZero(t, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 990, "span ids should be overwhelmingly distinct")
}

func TestSpanIDHexIsSixteenLowercaseDigits(t *testing.T) {
	s := spanIDHex(0xdeadbeef)
	assert.Len(t, s, 16)
	assert.Equal(t, "00000000deadbeef", s)
}

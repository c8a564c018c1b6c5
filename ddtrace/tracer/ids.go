// Grounded on other_examples/97180418_kmrgirish-dd-trace-go__ddtrace-tracer-spancontext.go.go
// (traceID as a fixed-size byte array with big-endian upper/lower halves
// and hex rendering helpers).
package tracer

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
)

// traceID is a 128-bit trace identifier, big-endian: <upper 64><lower 64>.
type traceID [16]byte

var emptyTraceID traceID

func (t traceID) HexEncoded() string { return hex.EncodeToString(t[:]) }

func (t traceID) Lower() uint64 { return binary.BigEndian.Uint64(t[8:]) }
func (t traceID) Upper() uint64 { return binary.BigEndian.Uint64(t[:8]) }

func (t *traceID) setLower(v uint64) { binary.BigEndian.PutUint64(t[8:], v) }
func (t *traceID) setUpper(v uint64) { binary.BigEndian.PutUint64(t[:8], v) }

// newTraceID generates a fresh, cryptographically random 128-bit trace ID.
// Root spans get a new one; children inherit their parent's.
func newTraceID() traceID {
	var id traceID
	if _, err := rand.Read(id[:]); err != nil {
		// crypto/rand.Read on the stdlib reader never returns an error in
		// practice; fall back to the process-local counter rather than panic,
		// since span creation must never raise into user code.
		binary.BigEndian.PutUint64(id[:8], uint64(fallbackEntropy()))
		binary.BigEndian.PutUint64(id[8:], uint64(fallbackEntropy()))
	}
	return id
}

// newSpanID generates a fresh, cryptographically random 64-bit span ID.
func newSpanID() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fallbackEntropy()
	}
	v := binary.BigEndian.Uint64(b[:])
	if v == 0 {
		// a zero span ID is indistinguishable from "absent" on the wire,
		// where an absent parent is encoded as empty bytes rather than a
		// zero value; avoid the degenerate case regardless.
		v = 1
	}
	return v
}

// fallbackEntropy is only reached if the system CSPRNG is unavailable; it
// must never panic, so it degrades to a process-local counter instead.
var entropyCounter atomic.Uint64

func fallbackEntropy() uint64 {
	return entropyCounter.Add(1)
}

// spanIDHex renders a 64-bit span ID as 16 lowercase hex digits.
func spanIDHex(id uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return hex.EncodeToString(b[:])
}

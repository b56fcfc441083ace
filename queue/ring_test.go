package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRingCapacityInvariant(t *testing.T) {
	r := NewRing(16)
	assert.Equal(t, 16, r.GetReadAvail()+r.GetWriteAvail())

	r.Write([]byte{1, 2, 3, 4})
	assert.Equal(t, 16, r.GetReadAvail()+r.GetWriteAvail())

	buf := make([]byte, 2)
	r.Read(buf)
	assert.Equal(t, 16, r.GetReadAvail()+r.GetWriteAvail())
}

func TestRingNoTearing(t *testing.T) {
	r := NewRing(8)
	written := []byte{10, 20, 30, 40, 50}
	n := r.Write(written)
	require.Equal(t, 5, n)

	out := make([]byte, 5)
	got := r.Read(out)
	require.Equal(t, 5, got)
	assert.Equal(t, written, out)
}

func TestRingUnderrunReturnsShortRead(t *testing.T) {
	r := NewRing(8)
	r.Write([]byte{1, 2})
	out := make([]byte, 8)
	n := r.Read(out)
	assert.Equal(t, 2, n)
}

func TestRingShrinkData(t *testing.T) {
	r := NewRing(32)
	r.Write(make([]byte, 20))
	dropped := r.ShrinkData(5)
	assert.Equal(t, 15, dropped)
	assert.Equal(t, 5, r.GetReadAvail())
}

// TestRingInvariantProperty exercises the ring's core capacity/ordering
// invariants across
// randomized write/read/shrink sequences: capacity is conserved and every
// byte read matches the deterministic value it was written with (no
// tearing), tracked via a logical stream position rather than a growing
// byte log so shrink/drop accounting stays exact.
func TestRingInvariantProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 256).Draw(rt, "capacity")
		r := NewRing(capacity)

		var writePos int64 // total bytes ever written (== value stream position)
		var logicalPos int64 // total bytes ever consumed (read or dropped)

		ops := rapid.IntRange(1, 60).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			op := rapid.IntRange(0, 2).Draw(rt, "op")
			switch op {
			case 0:
				n := rapid.IntRange(0, capacity).Draw(rt, "writeLen")
				chunk := make([]byte, n)
				for j := range chunk {
					chunk[j] = byte((writePos + int64(j)) % 256)
				}
				written := r.Write(chunk)
				writePos += int64(written)
			case 1:
				n := rapid.IntRange(0, capacity).Draw(rt, "readLen")
				buf := make([]byte, n)
				got := r.Read(buf)
				for j := 0; j < got; j++ {
					want := byte((logicalPos + int64(j)) % 256)
					if buf[j] != want {
						rt.Fatalf("tearing detected at logical pos %d: got %d want %d",
							logicalPos+int64(j), buf[j], want)
					}
				}
				logicalPos += int64(got)
			case 2:
				keep := rapid.IntRange(0, capacity).Draw(rt, "keep")
				dropped := r.ShrinkData(keep)
				logicalPos += int64(dropped)
			}
			if r.GetReadAvail()+r.GetWriteAvail() != capacity {
				rt.Fatalf("capacity invariant violated: read=%d write=%d cap=%d",
					r.GetReadAvail(), r.GetWriteAvail(), capacity)
			}
			if logicalPos > writePos {
				rt.Fatalf("consumed more bytes than were ever written")
			}
		}
	})
}

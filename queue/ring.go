package queue

import "sync/atomic"

// Ring is the lock-free single-producer/single-consumer byte ring that
// feeds the host audio device from the Mixer thread. The
// producer (Mixer) calls Write; the consumer (the host audio callback,
// running on its own OS thread) calls Read. Capacity is fixed at
// construction and rounded up internally is not required: any positive
// capacity works because indices are tracked as monotonically increasing
// counters modulo capacity, which is the standard lock-free SPSC ring
// construction.
type Ring struct {
	buf      []byte
	capacity uint64
	writePos atomic.Uint64 // total bytes ever written
	readPos  atomic.Uint64 // total bytes ever read
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring{
		buf:      make([]byte, capacity),
		capacity: uint64(capacity),
	}
}

func (r *Ring) Capacity() int { return int(r.capacity) }

// GetWriteAvail returns free space available for the producer.
func (r *Ring) GetWriteAvail() int {
	w := r.writePos.Load()
	rd := r.readPos.Load()
	used := w - rd
	return int(r.capacity - used)
}

// GetReadAvail returns bytes available for the consumer.
func (r *Ring) GetReadAvail() int {
	w := r.writePos.Load()
	rd := r.readPos.Load()
	return int(w - rd)
}

// Write appends p to the ring, truncating to available space (the caller
// — the Mixer — is responsible for not exceeding GetWriteAvail when it
// cares about lossless delivery; category mixing never writes more than
// required_frames worth of bytes per step, so overflow here only happens
// under the explicit overflow-recovery path where Shrink is used first).
func (r *Ring) Write(p []byte) int {
	avail := r.GetWriteAvail()
	n := len(p)
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}
	w := r.writePos.Load()
	start := int(w % r.capacity)
	for i := 0; i < n; i++ {
		r.buf[(start+i)%int(r.capacity)] = p[i]
	}
	r.writePos.Store(w + uint64(n))
	return n
}

// Read copies up to len(p) bytes out of the ring into p, returning the
// number of bytes actually read (may be less than len(p) on underrun; the
// caller is expected to zero-fill the remainder, matching the host audio
// callback's silence-pad-on-underrun behavior).
func (r *Ring) Read(p []byte) int {
	avail := r.GetReadAvail()
	n := len(p)
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}
	rd := r.readPos.Load()
	start := int(rd % r.capacity)
	for i := 0; i < n; i++ {
		p[i] = r.buf[(start+i)%int(r.capacity)]
	}
	r.readPos.Store(rd + uint64(n))
	return n
}

// ShrinkData drops the oldest bytes until only `keep` bytes of read-ready
// data remain, used for overflow recovery when the ring grows past
// prebuffer_us + 3*heartbeat. Returns the number of bytes
// dropped.
func (r *Ring) ShrinkData(keep int) int {
	avail := r.GetReadAvail()
	if keep >= avail {
		return 0
	}
	drop := avail - keep
	rd := r.readPos.Load()
	r.readPos.Store(rd + uint64(drop))
	return drop
}

// Reset drops all buffered data (used by Mixer.Reset and when the mixer
// is stopped).
func (r *Ring) Reset() {
	r.ShrinkData(0)
}

package audio

import "fmt"

// RingBuffer is a fixed-capacity circular store of float32 samples. Its
// logical content is always exactly capacity samples: the chronologically
// oldest sample sits at the write cursor, the newest just before it. Writes
// wrap and overwrite the oldest data; there is no backpressure. A consumer
// that falls behind loses the overwritten samples, which is the intended
// policy for a live capture window.
//
// Load and the read methods are not synchronized here; Record serializes
// them under its own mutex.
type RingBuffer struct {
	buf       *FloatBuffer
	nextWrite int // index of the oldest sample, where the next write lands
}

// NewRingBuffer allocates a zeroed ring of the given capacity.
func NewRingBuffer(capacity int) (*RingBuffer, error) {
	buf, err := NewFloatBuffer(capacity)
	if err != nil {
		return nil, fmt.Errorf("ring buffer: %w", err)
	}
	return &RingBuffer{buf: buf}, nil
}

// Capacity returns the fixed sample capacity.
func (r *RingBuffer) Capacity() int {
	return r.buf.Len()
}

// Load copies size samples starting at offset within src into the ring,
// wrapping past the end of storage as needed. When size exceeds the ring
// capacity only the trailing capacity samples of the input are kept — the
// rest would have been overwritten within the same call anyway. Fails when
// offset+size runs past the source bounds.
func (r *RingBuffer) Load(src *FloatBuffer, offset, size int) error {
	if src == nil {
		return fmt.Errorf("load from nil source: %w", ErrInvalidArgument)
	}
	if offset < 0 || size < 0 || offset+size > src.Len() {
		return fmt.Errorf("load %d samples at offset %d from source of %d: %w",
			size, offset, src.Len(), ErrInvalidArgument)
	}

	samples := src.data[offset : offset+size]
	capacity := r.buf.Len()

	if size >= capacity {
		copy(r.buf.data, samples[size-capacity:])
		r.nextWrite = 0
		return nil
	}

	n := copy(r.buf.data[r.nextWrite:], samples)
	if n < size {
		copy(r.buf.data, samples[n:])
	}
	r.nextWrite = (r.nextWrite + size) % capacity
	return nil
}

// ReadOrdered returns a new buffer with the ring contents in chronological
// order, oldest first. Always exactly capacity samples; does not mutate the
// ring.
func (r *RingBuffer) ReadOrdered() *FloatBuffer {
	out := make([]float32, r.buf.Len())
	n := copy(out, r.buf.data[r.nextWrite:])
	copy(out[n:], r.buf.data[:r.nextWrite])
	return wrapFloats(out)
}

// RawCopyAt copies size samples starting at offset from the raw storage,
// without rotating into chronological order. Bounds-checked against the ring
// capacity.
func (r *RingBuffer) RawCopyAt(offset, size int) (*FloatBuffer, error) {
	out, err := r.buf.CopyAt(offset, size)
	if err != nil {
		return nil, err
	}
	return wrapFloats(out), nil
}

// RawCopy duplicates the raw storage in its current layout.
func (r *RingBuffer) RawCopy() *FloatBuffer {
	return r.buf.Copy()
}

package audio

import "fmt"

// FloatBuffer is a fixed-capacity linear store of float32 samples. All
// copy-in and copy-out access is bounds-checked against the capacity set at
// construction; the buffer never grows.
type FloatBuffer struct {
	data []float32
}

// NewFloatBuffer allocates a zeroed buffer holding capacity samples.
func NewFloatBuffer(capacity int) (*FloatBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("float buffer capacity %d: %w", capacity, ErrInvalidArgument)
	}
	return &FloatBuffer{data: make([]float32, capacity)}, nil
}

// FloatBufferFrom copies samples into a new buffer sized exactly to them.
func FloatBufferFrom(samples []float32) *FloatBuffer {
	data := make([]float32, len(samples))
	copy(data, samples)
	return &FloatBuffer{data: data}
}

// wrapFloats views a slice as a FloatBuffer without copying. Hot-path helper
// for code inside this package that already owns the slice.
func wrapFloats(samples []float32) *FloatBuffer {
	return &FloatBuffer{data: samples}
}

// Len returns the buffer capacity in samples.
func (b *FloatBuffer) Len() int {
	return len(b.data)
}

// LoadAt copies samples into the buffer starting at offset. Fails if the
// write would run past the end of the buffer.
func (b *FloatBuffer) LoadAt(offset int, samples []float32) error {
	if offset < 0 || offset+len(samples) > len(b.data) {
		return fmt.Errorf("load %d samples at offset %d into buffer of %d: %w",
			len(samples), offset, len(b.data), ErrInvalidArgument)
	}
	copy(b.data[offset:], samples)
	return nil
}

// CopyAt returns a copy of size samples starting at offset. Fails if the
// range runs past the end of the buffer.
func (b *FloatBuffer) CopyAt(offset, size int) ([]float32, error) {
	if offset < 0 || size < 0 || offset+size > len(b.data) {
		return nil, fmt.Errorf("copy %d samples at offset %d from buffer of %d: %w",
			size, offset, len(b.data), ErrInvalidArgument)
	}
	out := make([]float32, size)
	copy(out, b.data[offset:offset+size])
	return out, nil
}

// Copy returns an independent duplicate of the whole buffer.
func (b *FloatBuffer) Copy() *FloatBuffer {
	return FloatBufferFrom(b.data)
}

// Samples returns the backing store. It is a live view, not a copy; callers
// that need isolation from later writes should use Copy.
func (b *FloatBuffer) Samples() []float32 {
	return b.data
}

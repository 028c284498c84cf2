package audio

import "fmt"

// Producer is the source side a Tensor refreshes from: a fixed-size window
// of recent samples readable at arbitrary raw offsets. Record implements it;
// tests substitute fakes.
type Producer interface {
	Format() Format
	BufferSize() int
	ReadAt(offset, size int) (*FloatBuffer, error)
}

// Tensor is a consumer-facing fixed-size window over a ring buffer: "the
// most recent sampleCount*channels samples" for one inference step. It is
// refreshed by pulling from a Producer and read via snapshot copies.
type Tensor struct {
	format      Format
	sampleCount int
	ring        *RingBuffer
}

// NewTensor allocates a tensor whose ring holds sampleCount samples per
// channel.
func NewTensor(format Format, sampleCount int) (*Tensor, error) {
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("tensor format %v: %w", format, ErrInvalidArgument)
	}
	if sampleCount <= 0 {
		return nil, fmt.Errorf("tensor sample count %d: %w", sampleCount, ErrInvalidArgument)
	}
	ring, err := NewRingBuffer(sampleCount * format.Channels)
	if err != nil {
		return nil, err
	}
	return &Tensor{format: format, sampleCount: sampleCount, ring: ring}, nil
}

// Format returns the compatibility descriptor declared at construction.
func (t *Tensor) Format() Format {
	return t.format
}

// SampleCount returns the per-channel window size.
func (t *Tensor) SampleCount() int {
	return t.sampleCount
}

// Load feeds the entire source buffer into the tensor's ring. The copy
// length is the source's own length; oversized sources keep only their
// trailing window (ring truncation policy).
func (t *Tensor) Load(src *FloatBuffer) error {
	if src == nil {
		return fmt.Errorf("tensor load from nil source: %w", ErrInvalidArgument)
	}
	return t.ring.Load(src, 0, src.Len())
}

// LoadFromProducer pulls one full producer window and loads it. Fails when
// the producer's format differs from the tensor's; a failed producer read
// (stale or errored capture) propagates as-is so the caller can skip the
// cycle.
func (t *Tensor) LoadFromProducer(p Producer) error {
	if !p.Format().Equal(t.format) {
		return fmt.Errorf("producer format %v, tensor format %v: %w",
			p.Format(), t.format, ErrInvalidArgument)
	}
	size := t.format.Channels * p.BufferSize()
	buf, err := p.ReadAt(0, size)
	if err != nil {
		return err
	}
	return t.ring.Load(buf, 0, buf.Len())
}

// RawSnapshot returns a defensive copy of the ring's raw storage, in storage
// order rather than chronological order. Deliberate escape hatch for
// consumers that track the write cursor themselves; everyone else wants
// OrderedSnapshot.
func (t *Tensor) RawSnapshot() *FloatBuffer {
	return t.ring.RawCopy()
}

// OrderedSnapshot returns the window contents oldest-first, isolated from
// later loads.
func (t *Tensor) OrderedSnapshot() *FloatBuffer {
	return t.ring.ReadOrdered()
}

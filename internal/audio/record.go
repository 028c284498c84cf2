package audio

import (
	"context"
	"fmt"
	"log"
	"sync"
)

type recordState int

const (
	recordIdle recordState = iota
	recordTapping
	recordStopped
)

// Record wraps a live capture backend and pushes its converted frames into a
// private ring buffer. It goes Idle → Tapping → Stopped; a stopped Record is
// done for good — build a fresh one to record again.
//
// One mutex serializes frame writes and ReadAt copies, so a read blocks
// until any in-flight frame write completes and never observes a torn
// buffer. Frame failures don't stop the stream; they set a sticky error that
// the next ReadAt returns, and the next good frame clears.
type Record struct {
	format     Format
	bufferSize int
	backend    Backend

	mu      sync.Mutex
	ring    *RingBuffer
	lastErr error
	state   recordState

	done    chan struct{} // closed when the frame loop exits
	monitor chan []float32
}

// NewRecord builds a producer over the given backend. Only mono is accepted:
// the downstream window contract is per-channel and the capture backends
// downmix to one channel before delivery.
func NewRecord(format Format, bufferSize int, backend Backend) (*Record, error) {
	if format.Channels != 1 {
		return nil, fmt.Errorf("record supports 1 channel, got %d: %w", format.Channels, ErrInvalidArgument)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("record sample rate %d: %w", format.SampleRate, ErrInvalidArgument)
	}
	if bufferSize <= 0 {
		return nil, fmt.Errorf("record buffer size %d: %w", bufferSize, ErrInvalidArgument)
	}
	if backend == nil {
		return nil, fmt.Errorf("record needs a backend: %w", ErrInvalidArgument)
	}
	ring, err := NewRingBuffer(bufferSize * format.Channels)
	if err != nil {
		return nil, err
	}
	return &Record{
		format:     format,
		bufferSize: bufferSize,
		backend:    backend,
		ring:       ring,
		done:       make(chan struct{}),
		monitor:    make(chan []float32, 32),
	}, nil
}

// Format returns the target capture format.
func (r *Record) Format() Format {
	return r.format
}

// BufferSize returns the requested window size in samples per channel.
func (r *Record) BufferSize() int {
	return r.bufferSize
}

// Start opens the backend (surfacing ErrPermissionDenied on refusal), starts
// the tap, and begins draining frames into the ring on a dedicated
// goroutine. Fails unless the Record is Idle.
func (r *Record) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != recordIdle {
		r.mu.Unlock()
		return fmt.Errorf("record already started: %w", ErrInvalidArgument)
	}
	r.state = recordTapping
	r.mu.Unlock()

	if err := r.backend.Open(ctx); err != nil {
		r.setState(recordStopped)
		close(r.done)
		return err
	}
	if err := r.backend.Start(); err != nil {
		r.backend.Close()
		r.setState(recordStopped)
		close(r.done)
		return fmt.Errorf("start capture tap: %w", err)
	}

	go func() {
		defer close(r.done)
		for frame := range r.backend.Frames() {
			r.writeFrame(frame)
		}
	}()

	return nil
}

// writeFrame validates and loads one frame under the record mutex. Any
// failure is recorded, not raised — the capture loop has no caller to hand
// an error to.
func (r *Record) writeFrame(frame Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case frame.Err != nil:
		r.lastErr = fmt.Errorf("%w: %v", ErrProcessing, frame.Err)
		return
	case len(frame.Samples) == 0:
		r.lastErr = fmt.Errorf("%w: empty capture frame", ErrProcessing)
		return
	case len(frame.Samples)%r.format.Channels != 0:
		r.lastErr = fmt.Errorf("%w: frame of %d samples not divisible by %d channels",
			ErrProcessing, len(frame.Samples), r.format.Channels)
		return
	}

	if err := r.ring.Load(wrapFloats(frame.Samples), 0, len(frame.Samples)); err != nil {
		r.lastErr = fmt.Errorf("%w: %v", ErrProcessing, err)
		return
	}
	r.lastErr = nil

	select {
	case r.monitor <- frame.Samples:
	default:
		// no monitor consumer, or it fell behind
	}
}

// ReadAt copies size samples at offset from the raw ring storage,
// synchronized against frame writes. It fails with the sticky capture error
// if the last frame was bad, or with ErrInvalidArgument on out-of-bounds
// ranges. Callers treat a failure as "no new data this cycle" and retry.
func (r *Record) ReadAt(offset, size int) (*FloatBuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastErr != nil {
		return nil, r.lastErr
	}
	return r.ring.RawCopyAt(offset, size)
}

// Monitor returns the live feed of converted capture frames, for listeners
// such as the stream broadcaster. Frames are dropped, not queued, when the
// consumer lags.
func (r *Record) Monitor() <-chan []float32 {
	return r.monitor
}

// Stop detaches the tap and halts the backend. No frame is written after
// Stop returns. Idempotent.
func (r *Record) Stop() error {
	r.mu.Lock()
	if r.state != recordTapping {
		r.mu.Unlock()
		return nil
	}
	r.state = recordStopped
	r.mu.Unlock()

	if err := r.backend.Stop(); err != nil {
		log.Printf("record: backend stop: %v", err)
	}
	<-r.done // wait for queued frames to land
	if err := r.backend.Close(); err != nil {
		return fmt.Errorf("close capture backend: %w", err)
	}
	return nil
}

func (r *Record) setState(s recordState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

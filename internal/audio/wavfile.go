package audio

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVBackend replays a WAV file through the capture pipeline as if it were a
// live device: decoded, converted to the target format, and delivered in
// fixed-size frames. Used for offline runs against recordings and for
// exercising the full pipeline in environments without a microphone.
type WAVBackend struct {
	path     string
	format   Format
	realtime bool

	samples []float32
	frames  chan Frame

	stopOnce sync.Once
	stop     chan struct{}
}

// NewWAVBackend prepares a replay backend for the file at path. With
// realtime set, frames are paced at the rate a live device would deliver
// them; otherwise the file is pushed through as fast as the consumer keeps
// up.
func NewWAVBackend(path string, format Format, realtime bool) *WAVBackend {
	return &WAVBackend{
		path:     path,
		format:   format,
		realtime: realtime,
		frames:   make(chan Frame, 64),
		stop:     make(chan struct{}),
	}
}

// Open decodes the whole file and converts it to the target format: samples
// scaled to [-1, 1], channels downmixed to mono, rate converted by linear
// interpolation.
func (b *WAVBackend) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(b.path)
	if err != nil {
		return fmt.Errorf("open wav %s: %w", b.path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("%w: %s is not a valid wav file", ErrInvalidArgument, b.path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", b.path, err)
	}

	mono := Downmix(floatSamples(buf), buf.Format.NumChannels)
	b.samples = Resample(mono, buf.Format.SampleRate, b.format.SampleRate)
	return nil
}

// floatSamples scales decoded integer PCM to [-1, 1].
func floatSamples(buf *goaudio.IntBuffer) []float32 {
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	scale := float32(int(1) << (depth - 1))
	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(v) / scale
	}
	return out
}

// Start begins frame delivery. The frames channel closes when the file runs
// out or Stop is called.
func (b *WAVBackend) Start() error {
	if b.samples == nil {
		return fmt.Errorf("wav backend not opened: %w", ErrInvalidArgument)
	}

	frameDur := time.Duration(portAudioFramesPerBuffer) * time.Second / time.Duration(b.format.SampleRate)

	go func() {
		defer close(b.frames)
		for off := 0; off < len(b.samples); off += portAudioFramesPerBuffer {
			end := off + portAudioFramesPerBuffer
			if end > len(b.samples) {
				end = len(b.samples)
			}
			if b.realtime {
				select {
				case <-b.stop:
					return
				case <-time.After(frameDur):
				}
			}
			select {
			case <-b.stop:
				return
			case b.frames <- Frame{Samples: b.samples[off:end]}:
			}
		}
	}()
	return nil
}

func (b *WAVBackend) Stop() error {
	b.stopOnce.Do(func() { close(b.stop) })
	return nil
}

func (b *WAVBackend) Close() error {
	return nil
}

func (b *WAVBackend) Frames() <-chan Frame {
	return b.frames
}

package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// portAudioFramesPerBuffer is the callback chunk size. 512 samples at 16kHz
// is 32ms — small enough for prompt window refresh, large enough to keep
// callback overhead down.
const portAudioFramesPerBuffer = 512

// PortAudioBackend captures from the default input device via PortAudio.
// Callback buffers are copied and delivered on a buffered channel; when the
// consumer lags, frames are dropped at the channel rather than blocking the
// audio callback.
type PortAudioBackend struct {
	format Format
	stream *portaudio.Stream
	frames chan Frame
}

// NewPortAudioBackend prepares a backend targeting the given mono format.
// The device is not touched until Open.
func NewPortAudioBackend(format Format) *PortAudioBackend {
	return &PortAudioBackend{
		format: format,
		frames: make(chan Frame, 64),
	}
}

// Open initializes PortAudio and opens the default input stream. A refusal
// by the OS surfaces as ErrPermissionDenied.
func (b *PortAudioBackend) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(
		b.format.Channels,
		0, // no output
		float64(b.format.SampleRate),
		portAudioFramesPerBuffer,
		b.onCapture,
	)
	if err != nil {
		portaudio.Terminate()
		if isPermissionError(err) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("portaudio open stream: %w", err)
	}
	b.stream = stream
	return nil
}

// onCapture runs on PortAudio's callback thread. The input buffer is reused
// by the library, so each frame is copied before handoff.
func (b *PortAudioBackend) onCapture(in []float32) {
	frame := make([]float32, len(in))
	copy(frame, in)
	select {
	case b.frames <- Frame{Samples: frame}:
	default:
	}
}

func (b *PortAudioBackend) Start() error {
	if err := b.stream.Start(); err != nil {
		return fmt.Errorf("portaudio start stream: %w", err)
	}
	return nil
}

func (b *PortAudioBackend) Stop() error {
	if b.stream == nil {
		return nil
	}
	err := b.stream.Stop()
	close(b.frames)
	if err != nil {
		return fmt.Errorf("portaudio stop stream: %w", err)
	}
	return nil
}

func (b *PortAudioBackend) Close() error {
	var err error
	if b.stream != nil {
		err = b.stream.Close()
	}
	portaudio.Terminate()
	return err
}

func (b *PortAudioBackend) Frames() <-chan Frame {
	return b.frames
}

// isPermissionError sniffs the PortAudio error text for the phrasings the
// platforms use when microphone access is blocked.
func isPermissionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "denied") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "device unavailable")
}

package audio

import "context"

// Frame is one converted capture chunk delivered by a Backend. Err carries a
// conversion or device failure for that chunk; Samples is empty when Err is
// set. The stream keeps flowing after a bad frame.
type Frame struct {
	Samples []float32
	Err     error
}

// Backend abstracts the capture device so Record can be tested without a
// microphone. Open may block on the platform permission prompt and returns
// ErrPermissionDenied when access is refused. Frames delivers chunks already
// converted to the Record's target format; the channel is closed by Stop.
type Backend interface {
	Open(ctx context.Context) error
	Start() error
	Stop() error
	Close() error
	Frames() <-chan Frame
}

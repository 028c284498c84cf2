package audio

import "errors"

var (
	// ErrInvalidArgument covers bounds violations and format mismatches.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied is returned when the OS has denied microphone access.
	ErrPermissionDenied = errors.New("microphone access denied")

	// ErrProcessing reports a capture or conversion failure. It is recorded
	// when a bad frame arrives and surfaced on the next read, since the
	// capture callback has no caller to return it to.
	ErrProcessing = errors.New("audio processing failed")
)

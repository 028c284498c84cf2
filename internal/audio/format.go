package audio

import "fmt"

// Format describes the shape of a PCM stream: interleaved channel count and
// sample rate. It carries no behavior — producers and consumers compare
// formats before exchanging samples.
type Format struct {
	Channels   int
	SampleRate int
}

// Equal reports whether both channel count and sample rate match.
func (f Format) Equal(other Format) bool {
	return f.Channels == other.Channels && f.SampleRate == other.SampleRate
}

func (f Format) String() string {
	return fmt.Sprintf("%dch@%dHz", f.Channels, f.SampleRate)
}

package audio

import "encoding/binary"

// PCM16FromFloat32 converts float32 samples in [-1, 1] to int16 PCM,
// clipping out-of-range values.
func PCM16FromFloat32(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// Float32FromPCM16 converts int16 PCM to float32 samples in [-1, 1].
func Float32FromPCM16(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// PCM16Bytes converts int16 samples to little-endian bytes, the layout the
// HTTP WAV stream writes on the wire.
func PCM16Bytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

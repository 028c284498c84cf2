package audio

import (
	"math"
	"testing"
)

func TestDownmixAveragesChannels(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	got := Downmix(stereo, 2)
	want := []float32{0.5, 0.5, 0}
	if len(got) != len(want) {
		t.Fatalf("Downmix length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Downmix[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	mono := []float32{1, 2, 3}
	got := Downmix(mono, 1)
	if &got[0] != &mono[0] {
		t.Error("mono Downmix should return the input unchanged")
	}
}

func TestResampleSameRatePassthrough(t *testing.T) {
	in := []float32{1, 2, 3}
	got := Resample(in, 16000, 16000)
	if &got[0] != &in[0] {
		t.Error("same-rate Resample should return the input unchanged")
	}
}

func TestResampleHalvesLength(t *testing.T) {
	in := make([]float32, 100)
	for i := range in {
		in[i] = float32(i)
	}
	got := Resample(in, 32000, 16000)
	if len(got) != 50 {
		t.Fatalf("Resample length = %d, want 50", len(got))
	}
	// A linear ramp stays a linear ramp at twice the step.
	for i := 0; i < len(got)-1; i++ {
		if math.Abs(float64(got[i])-float64(2*i)) > 1e-5 {
			t.Errorf("Resample[%d] = %v, want %v", i, got[i], 2*i)
		}
	}
}

func TestResampleDoublesLength(t *testing.T) {
	in := []float32{0, 1, 2, 3}
	got := Resample(in, 8000, 16000)
	if len(got) != 8 {
		t.Fatalf("Resample length = %d, want 8", len(got))
	}
	// Interpolated midpoints sit halfway between neighbors.
	if math.Abs(float64(got[1])-0.5) > 1e-5 {
		t.Errorf("Resample[1] = %v, want 0.5", got[1])
	}
	if math.Abs(float64(got[2])-1) > 1e-5 {
		t.Errorf("Resample[2] = %v, want 1", got[2])
	}
}

func TestPCM16RoundTrip(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 1, -1, 2, -2} // incl. clipping inputs
	pcm := PCM16FromFloat32(in)

	if pcm[3] != 32767 {
		t.Errorf("1.0 -> %d, want 32767", pcm[3])
	}
	if pcm[5] != 32767 || pcm[6] != -32768 {
		t.Errorf("out-of-range not clipped: got %d, %d", pcm[5], pcm[6])
	}

	back := Float32FromPCM16(pcm[:5])
	for i, want := range []float32{0, 0.5, -0.5, 1, -1} {
		if math.Abs(float64(back[i])-float64(want)) > 1e-3 {
			t.Errorf("round trip[%d] = %v, want ~%v", i, back[i], want)
		}
	}
}

func TestPCM16Bytes(t *testing.T) {
	buf := PCM16Bytes([]int16{256, -1})
	// 256 = 0x0100 little-endian -> [0x00, 0x01]; -1 -> [0xFF, 0xFF]
	want := []byte{0x00, 0x01, 0xFF, 0xFF}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("byte[%d] = %02x, want %02x", i, buf[i], want[i])
		}
	}
}

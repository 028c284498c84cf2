package stream

import (
	"encoding/binary"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkarlsen/earshot/internal/audio"
	"github.com/mkarlsen/earshot/internal/classify"
)

func TestWAVStreamHeader(t *testing.T) {
	hdr := wavStreamHeader(audio.Format{Channels: 1, SampleRate: 16000})

	if len(hdr) != 44 {
		t.Fatalf("header length = %d, want 44", len(hdr))
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint16(hdr[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(hdr[24:28]); got != 16000 {
		t.Errorf("sample rate = %d, want 16000", got)
	}
	// 16kHz mono 16-bit: 32000 bytes/sec, block align 2
	if got := binary.LittleEndian.Uint32(hdr[28:32]); got != 32000 {
		t.Errorf("byte rate = %d, want 32000", got)
	}
	if got := binary.LittleEndian.Uint16(hdr[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
}

type statusStubProducer struct{}

func (statusStubProducer) Format() audio.Format { return audio.Format{Channels: 1, SampleRate: 16000} }
func (statusStubProducer) BufferSize() int      { return 16 }
func (statusStubProducer) ReadAt(offset, size int) (*audio.FloatBuffer, error) {
	return audio.FloatBufferFrom(make([]float32, size)), nil
}

func TestStatusHandler(t *testing.T) {
	format := audio.Format{Channels: 1, SampleRate: 16000}
	b := NewBroadcaster()
	l := b.Subscribe()
	defer b.Unsubscribe(l)

	runner, err := classify.NewRunner(statusStubProducer{}, &classify.EnergyClassifier{}, time.Second)
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}
	wh := NewWebRTCHandler(b, format)
	h := NewStatusHandler(b, wh, runner, format)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))

	if rec.Code != 200 {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	var status struct {
		Format    string `json:"format"`
		Listeners int    `json:"listeners"`
		Peers     int    `json:"peers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Format != "1ch@16000Hz" {
		t.Errorf("format = %q, want 1ch@16000Hz", status.Format)
	}
	if status.Listeners != 1 {
		t.Errorf("listeners = %d, want 1", status.Listeners)
	}
	if status.Peers != 0 {
		t.Errorf("peers = %d, want 0", status.Peers)
	}
}

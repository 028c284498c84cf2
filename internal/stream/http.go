package stream

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/mkarlsen/earshot/internal/audio"
	"github.com/mkarlsen/earshot/internal/classify"
)

// HTTPHandler serves the live monitor feed as a chunked WAV stream —
// playable straight from curl, a browser, or any media player. The data
// chunk length is left at its maximum since the stream has no end.
type HTTPHandler struct {
	broadcaster *Broadcaster
	format      audio.Format
}

// NewHTTPHandler creates an HTTP monitor stream handler.
func NewHTTPHandler(b *Broadcaster, format audio.Format) *HTTPHandler {
	return &HTTPHandler{broadcaster: b, format: format}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Connection", "close")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if _, err := w.Write(wavStreamHeader(h.format)); err != nil {
		return
	}
	flusher.Flush()

	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	log.Printf("HTTP listener connected (total: %d)", h.broadcaster.ListenerCount())
	defer log.Printf("HTTP listener disconnected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-listener.done:
			return
		case frame, ok := <-listener.C:
			if !ok {
				return
			}
			if _, err := w.Write(audio.PCM16Bytes(frame)); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// wavStreamHeader builds a 44-byte PCM WAV header with maxed-out chunk sizes
// for an endless stream.
func wavStreamHeader(f audio.Format) []byte {
	const bitsPerSample = 16
	byteRate := f.SampleRate * f.Channels * bitsPerSample / 8
	blockAlign := f.Channels * bitsPerSample / 8

	buf := make([]byte, 44)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], 0xFFFFFFFF)
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], 0xFFFFFFFF)
	return buf
}

// StatusHandler reports service health and the latest classification as
// JSON.
type StatusHandler struct {
	started     time.Time
	format      audio.Format
	broadcaster *Broadcaster
	webrtc      *WebRTCHandler
	runner      *classify.Runner
}

// NewStatusHandler creates the /status endpoint handler.
func NewStatusHandler(b *Broadcaster, wh *WebRTCHandler, runner *classify.Runner, format audio.Format) *StatusHandler {
	return &StatusHandler{
		started:     time.Now(),
		format:      format,
		broadcaster: b,
		webrtc:      wh,
		runner:      runner,
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := struct {
		UptimeSeconds float64          `json:"uptime_seconds"`
		Format        string           `json:"format"`
		Listeners     int              `json:"listeners"`
		Peers         int              `json:"peers"`
		SkippedCycles int              `json:"skipped_cycles"`
		Last          *classify.Result `json:"last,omitempty"`
	}{
		UptimeSeconds: time.Since(h.started).Seconds(),
		Format:        h.format.String(),
		Listeners:     h.broadcaster.ListenerCount(),
		Peers:         h.webrtc.PeerCount(),
		SkippedCycles: h.runner.SkippedCycles(),
	}
	if last, ok := h.runner.Last(); ok {
		status.Last = &last
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(status)
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkarlsen/earshot/internal/audio"
	"github.com/mkarlsen/earshot/internal/classify"
	"github.com/mkarlsen/earshot/internal/config"
	"github.com/mkarlsen/earshot/internal/stream"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	format := audio.Format{Channels: 1, SampleRate: cfg.SampleRate}

	// Capture source: microphone by default, WAV replay when configured
	var backend audio.Backend
	if cfg.WAVPath != "" {
		log.Printf("replaying %s at %v", cfg.WAVPath, format)
		backend = audio.NewWAVBackend(cfg.WAVPath, format, cfg.Realtime)
	} else {
		log.Printf("capturing default input at %v", format)
		backend = audio.NewPortAudioBackend(format)
	}

	rec, err := audio.NewRecord(format, cfg.WindowSamples(), backend)
	if err != nil {
		log.Fatalf("create record: %v", err)
	}
	if err := rec.Start(ctx); err != nil {
		log.Fatalf("start capture: %v", err)
	}
	defer rec.Stop()

	// Classifier loop
	classifier := &classify.EnergyClassifier{
		SilenceRMS: cfg.SilenceRMS,
		LoudRMS:    cfg.LoudRMS,
	}
	runner, err := classify.NewRunner(rec, classifier, cfg.Interval)
	if err != nil {
		log.Fatalf("create runner: %v", err)
	}
	go runner.Run(ctx)

	go logResults(ctx, runner)

	// Live monitor fan-out
	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, rec.Monitor())

	webrtcHandler := stream.NewWebRTCHandler(broadcaster, format)

	mux := http.NewServeMux()
	mux.Handle("/stream", stream.NewHTTPHandler(broadcaster, format))
	mux.Handle("/offer", webrtcHandler)
	mux.Handle("/status", stream.NewStatusHandler(broadcaster, webrtcHandler, runner, format))

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		server.Close()
	}()

	log.Printf("earshot listening on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}

// logResults prints each classification as it happens.
func logResults(ctx context.Context, runner *classify.Runner) {
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-runner.Results():
			if !ok {
				return
			}
			parts := make([]string, 0, len(res.Predictions))
			for _, p := range res.Predictions {
				parts = append(parts, fmt.Sprintf("%s=%.2f", p.Label, p.Score))
			}
			log.Printf("classified in %v: %s", res.Elapsed, strings.Join(parts, " "))
		}
	}
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port int

	// Capture
	SampleRate int           // target capture rate in Hz
	WindowSecs float64       // classification window length in seconds
	Interval   time.Duration // time between classifier invocations
	WAVPath    string        // replay this file instead of the microphone
	Realtime   bool          // pace WAV replay at live speed

	// Classifier thresholds
	SilenceRMS float64
	LoudRMS    float64
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port: envInt("EARSHOT_PORT", 8080),

		SampleRate: envInt("EARSHOT_SAMPLE_RATE", 16000),
		WindowSecs: envFloat("EARSHOT_WINDOW_SECS", 1.0),
		Interval:   time.Duration(envFloat("EARSHOT_INTERVAL_SECS", 0.5) * float64(time.Second)),
		WAVPath:    envStr("EARSHOT_WAV_PATH", ""),
		Realtime:   envBool("EARSHOT_WAV_REALTIME", true),

		SilenceRMS: envFloat("EARSHOT_SILENCE_RMS", 0.01),
		LoudRMS:    envFloat("EARSHOT_LOUD_RMS", 0.2),
	}
}

// WindowSamples returns the classification window size in samples.
func (c Config) WindowSamples() int {
	return int(c.WindowSecs * float64(c.SampleRate))
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

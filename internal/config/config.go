// Package config provides centralized configuration management for the
// ring buffer demo programs. This is the single source of truth for the
// buffer, audio, and server settings shared by cmd/ringdemo and
// cmd/audiopipeline.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// RING BUFFER CONFIGURATION
// =============================================================================

// BufferConfig holds ring buffer sizing and producer/consumer pacing.
type BufferConfig struct {
	Capacity       int // Number of slots in the ring buffer
	ProducerRateHz int // Target pushes per second for the synthetic producer
	BatchSize      int // Frames decoded per batch by cmd/audiopipeline's decoder
}

// DefaultBuffer returns the default buffer configuration.
func DefaultBuffer() BufferConfig {
	return BufferConfig{
		Capacity:       1024,
		ProducerRateHz: 2000,
		BatchSize:      32,
	}
}

// BufferFromEnv returns buffer configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func BufferFromEnv() BufferConfig {
	cfg := DefaultBuffer()

	if c := getEnvInt("RINGBUF_CAPACITY", 0); c > 0 {
		cfg.Capacity = c
	}
	if r := getEnvInt("RINGBUF_PRODUCER_RATE_HZ", 0); r > 0 {
		cfg.ProducerRateHz = r
	}
	if b := getEnvInt("RINGBUF_BATCH_SIZE", 0); b > 0 {
		cfg.BatchSize = b
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds settings for the OGG decode -> ring buffer -> playback
// pipeline in cmd/audiopipeline.
type AudioConfig struct {
	SampleRate int     // Audio sample rate in Hz, resampled to match on decode
	Channels   int     // Number of audio channels (1=mono, 2=stereo)
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool    // Whether the audio pipeline runs at all
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Channels:   2,
		Volume:     0.8,
		Enabled:    true,
	}
}

// AudioFromEnv returns audio configuration with environment variable
// overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if sr := getEnvInt("AUDIO_SAMPLE_RATE", 0); sr > 0 {
		cfg.SampleRate = sr
	}
	if v := getEnvFloat("AUDIO_VOLUME", -1); v >= 0 {
		cfg.Volume = v
	}
	if os.Getenv("AUDIO_ENABLED") == "false" {
		cfg.Enabled = false
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP and debug server settings.
type ServerConfig struct {
	Port          int    // Public stats API port
	DebugAddr     string // pprof + Prometheus metrics address, localhost only
	BasicAuthUser string // Optional basic auth for the debug server
	BasicAuthPass string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      8080,
		DebugAddr: "127.0.0.1:6060",
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.DebugAddr = addr
	}
	cfg.BasicAuthUser = os.Getenv("DEBUG_BASIC_AUTH_USER")
	cfg.BasicAuthPass = os.Getenv("DEBUG_BASIC_AUTH_PASS")

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Buffer BufferConfig
	Audio  AudioConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Buffer: BufferFromEnv(),
		Audio:  AudioFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

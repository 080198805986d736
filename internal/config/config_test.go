package config

import "testing"

func TestBufferFromEnvOverridesCapacity(t *testing.T) {
	t.Setenv("RINGBUF_CAPACITY", "256")
	t.Setenv("RINGBUF_PRODUCER_RATE_HZ", "")
	t.Setenv("RINGBUF_BATCH_SIZE", "")

	cfg := BufferFromEnv()
	if cfg.Capacity != 256 {
		t.Fatalf("Capacity = %d, want 256", cfg.Capacity)
	}
	if cfg.ProducerRateHz != DefaultBuffer().ProducerRateHz {
		t.Fatalf("ProducerRateHz = %d, want default %d", cfg.ProducerRateHz, DefaultBuffer().ProducerRateHz)
	}
}

func TestAudioFromEnvDisable(t *testing.T) {
	t.Setenv("AUDIO_ENABLED", "false")

	cfg := AudioFromEnv()
	if cfg.Enabled {
		t.Fatal("AUDIO_ENABLED=false should disable the audio pipeline")
	}
}

func TestServerFromEnvDefaultsToLocalhostDebugAddr(t *testing.T) {
	t.Setenv("DEBUG_ADDR", "")

	cfg := ServerFromEnv()
	if cfg.DebugAddr != "127.0.0.1:6060" {
		t.Fatalf("DebugAddr = %q, want 127.0.0.1:6060", cfg.DebugAddr)
	}
}

package audio

import (
	"bytes"
	"testing"
	"time"

	"github.com/kickstream/ringbuf"
	"github.com/kickstream/ringbuf/ringbufmetrics"
)

func TestFloatToInt16ClampsFullScale(t *testing.T) {
	if got := floatToInt16(2.0); int16(got) != 32767 {
		t.Fatalf("floatToInt16(2.0) = %d, want 32767", int16(got))
	}
	if got := floatToInt16(-2.0); int16(got) != -32768 {
		t.Fatalf("floatToInt16(-2.0) = %d, want -32768", int16(got))
	}
	if got := floatToInt16(0); int16(got) != 0 {
		t.Fatalf("floatToInt16(0) = %d, want 0", int16(got))
	}
}

func TestPlayerDrainsBufferedFrames(t *testing.T) {
	rb := ringbuf.New[[2]float64](8)
	rawP, rawC := rb.Split()
	consumer := ringbufmetrics.WrapConsumer("player-test", rawC)

	for i := 0; i < 4; i++ {
		if err := rawP.Push([2]float64{0.5, -0.5}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	rawP.Close()

	var sink bytes.Buffer
	player := NewPlayer(consumer, &sink)
	player.Start(44100)

	deadline := time.After(time.Second)
	for {
		if player.GetStats().FramesWritten >= 4 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for player to drain frames")
		case <-time.After(time.Millisecond):
		}
	}
	player.Stop()

	if sink.Len() != 4*4 {
		t.Fatalf("sink length = %d, want %d (4 frames * 4 bytes)", sink.Len(), 4*4)
	}
}

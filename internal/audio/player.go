package audio

import (
	"encoding/binary"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kickstream/ringbuf/ringbufmetrics"
)

// Player pulls decoded stereo frames from a ring buffer and writes them to
// an io.Writer as interleaved signed 16-bit PCM, at a steady rate decoupled
// from however fast the decoder can produce frames.
type Player struct {
	consumer *ringbufmetrics.Consumer[[2]float64]
	sink     io.Writer
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool

	framesWritten  atomic.Uint64
	writeErrors    atomic.Uint64
	avgPopTimeNs   atomic.Int64
	consecutiveGap atomic.Int32
}

// NewPlayer creates a player draining consumer into sink.
func NewPlayer(consumer *ringbufmetrics.Consumer[[2]float64], sink io.Writer) *Player {
	return &Player{
		consumer: consumer,
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// Start begins the player goroutine, popping frames at sampleRate Hz and
// writing them to the sink. It is a no-op if already running.
func (pl *Player) Start(sampleRate int) {
	if !pl.running.CompareAndSwap(false, true) {
		return
	}

	pl.stopChan = make(chan struct{})
	pl.wg.Add(1)

	go func() {
		defer pl.wg.Done()
		defer pl.running.Store(false)

		frameInterval := time.Second / time.Duration(sampleRate)
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		log.Printf("audio: player started at %d Hz (%.4fms interval)", sampleRate, frameInterval.Seconds()*1000)

		var sample [4]byte
		for {
			select {
			case <-pl.stopChan:
				log.Println("audio: player stopping")
				return
			case <-ticker.C:
				start := time.Now()
				frame, err := pl.consumer.Pop()
				if err != nil {
					gap := pl.consecutiveGap.Add(1)
					if gap == int32(sampleRate) { // ~1 second of silence
						log.Println("audio: player starving - decoder may be too slow")
					}
					continue
				}
				pl.consecutiveGap.Store(0)
				popTime := time.Since(start)

				binary.LittleEndian.PutUint16(sample[0:2], floatToInt16(frame[0]))
				binary.LittleEndian.PutUint16(sample[2:4], floatToInt16(frame[1]))
				if _, err := pl.sink.Write(sample[:]); err != nil {
					pl.writeErrors.Add(1)
					if pl.writeErrors.Load() <= 5 {
						log.Printf("audio: player write error: %v", err)
					}
					continue
				}

				pl.framesWritten.Add(1)
				avg := pl.avgPopTimeNs.Load()
				pl.avgPopTimeNs.Store((avg*9 + popTime.Nanoseconds()) / 10)

				if popTime > frameInterval {
					log.Printf("audio: pop took %.4fms (target %.4fms) - possible backpressure",
						popTime.Seconds()*1000, frameInterval.Seconds()*1000)
				}
			}
		}
	}()
}

// Stop stops the player goroutine and waits for it to finish.
func (pl *Player) Stop() {
	if !pl.running.CompareAndSwap(true, false) {
		return
	}
	close(pl.stopChan)
	pl.wg.Wait()
	log.Println("audio: player stopped")
}

// IsRunning reports whether the player goroutine is active.
func (pl *Player) IsRunning() bool {
	return pl.running.Load()
}

// Stats describes the player's running counters alongside the ring
// buffer's current occupancy.
type Stats struct {
	FramesWritten uint64
	WriteErrors   uint64
	AvgPopTimeMs  float64
	BufferStats   ringbufmetrics.ConsumerStats
}

// GetStats returns the player's current statistics.
func (pl *Player) GetStats() Stats {
	return Stats{
		FramesWritten: pl.framesWritten.Load(),
		WriteErrors:   pl.writeErrors.Load(),
		AvgPopTimeMs:  float64(pl.avgPopTimeNs.Load()) / 1e6,
		BufferStats:   pl.consumer.Snapshot(),
	}
}

// floatToInt16 converts a float64 sample (-1.0 to 1.0) to a little-endian
// int16 bit pattern, soft-clipping near full scale to avoid harsh
// distortion when mixed sources briefly exceed unity gain.
func floatToInt16(sample float64) uint16 {
	scaled := sample * 32767.0

	if scaled > 30000 {
		scaled = 30000 + (scaled-30000)/4
	} else if scaled < -30000 {
		scaled = -30000 + (scaled+30000)/4
	}

	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}

	return uint16(int16(scaled))
}

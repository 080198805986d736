// Package audio decodes OGG Vorbis audio and streams it through a
// ringbuf.RingBuffer[[2]float64], keeping decode and playback in separate
// goroutines connected only by the ring buffer's wait-free Push/Pop
// contract.
package audio

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"

	"github.com/kickstream/ringbuf/ringbufmetrics"
)

// Decoder streams OGG Vorbis audio with on-demand decoding, pushing
// decoded stereo frames into a ring buffer. The streaming approach keeps
// memory bounded to the ring buffer's capacity rather than the whole
// decoded track.
type Decoder struct {
	streamer beep.StreamSeekCloser
	format   beep.Format

	resampled beep.Streamer

	volume           float64
	targetSampleRate int

	// scratch is reused across Run's batches to avoid per-batch allocation.
	scratch [][2]float64
}

// NewDecoder opens path as an OGG Vorbis file and prepares it for
// streaming at targetSampleRate, resampling if the file's native rate
// doesn't match.
func NewDecoder(path string, targetSampleRate int, volume float64) (*Decoder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}

	streamer, format, err := vorbis.Decode(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	d := &Decoder{
		streamer:         streamer,
		format:           format,
		volume:           volume,
		targetSampleRate: targetSampleRate,
		scratch:          make([][2]float64, 4096),
	}

	if int(format.SampleRate) != targetSampleRate {
		log.Printf("audio: resampling %s from %d Hz to %d Hz", path, format.SampleRate, targetSampleRate)
		d.resampled = beep.Resample(4, format.SampleRate, beep.SampleRate(targetSampleRate), streamer)
	} else {
		d.resampled = streamer
	}

	return d, nil
}

// Close releases the underlying file handle.
func (d *Decoder) Close() error {
	return d.streamer.Close()
}

// Run decodes batchSize-frame batches and pushes them into p, looping
// forever if loop is true (the common case for background audio). If loop
// is false, Run returns nil once the stream is exhausted.
func (d *Decoder) Run(p *ringbufmetrics.Producer[[2]float64], batchSize int, loop bool) error {
	if batchSize > len(d.scratch) {
		d.scratch = make([][2]float64, batchSize)
	}

	for {
		buf := d.scratch[:batchSize]
		n, ok := d.resampled.Stream(buf)

		if !ok || n < batchSize {
			if !loop {
				return d.pushBatch(p, buf[:n])
			}
			if seeker, isSeeker := d.streamer.(beep.StreamSeeker); isSeeker {
				if err := seeker.Seek(0); err != nil {
					return fmt.Errorf("audio: loop seek: %w", err)
				}
			}
			if n < batchSize {
				more, _ := d.resampled.Stream(buf[n:batchSize])
				n += more
			}
		}

		if err := d.pushBatch(p, buf[:n]); err != nil {
			return err
		}
	}
}

// pushBatch applies volume and pushes each frame individually, retrying a
// full buffer rather than dropping audio.
func (d *Decoder) pushBatch(p *ringbufmetrics.Producer[[2]float64], frames [][2]float64) error {
	for _, f := range frames {
		scaled := [2]float64{f[0] * d.volume, f[1] * d.volume}
		for p.Push(scaled) != nil {
			// Ring buffer full: the player is behind. Yield instead of
			// spinning flat out so the consumer goroutine gets scheduled.
			runtime.Gosched()
		}
	}
	return nil
}

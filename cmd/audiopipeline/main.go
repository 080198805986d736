// Command audiopipeline wires internal/audio's OGG decoder to a
// ringbuf.RingBuffer[[2]float64] and a realtime-paced player, the concrete
// scenario this library's wait-free Push/Pop contract is built for: an
// audio callback thread that can never block on the producer.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kickstream/ringbuf"
	"github.com/kickstream/ringbuf/internal/audio"
	"github.com/kickstream/ringbuf/internal/config"
	"github.com/kickstream/ringbuf/internal/debugserver"
	"github.com/kickstream/ringbuf/ringbufmetrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("audiopipeline: no .env file found, using environment variables only")
	}

	if len(os.Args) < 2 {
		log.Fatal("audiopipeline: usage: audiopipeline <ogg-file> [pcm-output-file]")
	}
	oggPath := os.Args[1]

	appConfig := config.Load()
	audioCfg := appConfig.Audio
	bufCfg := appConfig.Buffer
	serverCfg := appConfig.Server

	if !audioCfg.Enabled {
		log.Println("audiopipeline: audio disabled via AUDIO_ENABLED=false, exiting")
		return
	}

	decoder, err := audio.NewDecoder(oggPath, audioCfg.SampleRate, audioCfg.Volume)
	if err != nil {
		log.Fatalf("audiopipeline: %v", err)
	}
	defer decoder.Close()

	rb := ringbuf.New[[2]float64](bufCfg.Capacity)
	rawProducer, rawConsumer := rb.Split()
	producer := ringbufmetrics.WrapProducer("audio-pipeline", rawProducer)
	consumer := ringbufmetrics.WrapConsumer("audio-pipeline", rawConsumer)

	sink, err := pcmSink()
	if err != nil {
		log.Fatalf("audiopipeline: %v", err)
	}
	if closer, ok := sink.(io.Closer); ok {
		defer closer.Close()
	}

	player := audio.NewPlayer(consumer, sink)
	player.Start(audioCfg.SampleRate)

	go func() {
		if err := decoder.Run(producer, bufCfg.BatchSize, true); err != nil {
			log.Printf("audiopipeline: decoder stopped: %v", err)
		}
	}()

	debugSrv, err := debugserver.StartDebugServer(debugserver.DebugConfig{
		Enabled:    true,
		ListenAddr: serverCfg.DebugAddr,
	})
	if err != nil {
		log.Fatalf("audiopipeline: debug server: %v", err)
	}

	log.Printf("audiopipeline: decoding %s into a %d-slot buffer at %d Hz", oggPath, bufCfg.Capacity, audioCfg.SampleRate)
	log.Printf("audiopipeline: metrics on %s", serverCfg.DebugAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("audiopipeline: shutting down")
	player.Stop()
	producer.Close()
	consumer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	debugserver.StopDebugServer(shutdownCtx, debugSrv)
}

// pcmSink opens the second CLI argument as a truncate-create PCM output
// file, defaulting to stdout when none is given.
func pcmSink() (io.Writer, error) {
	if len(os.Args) < 3 {
		return os.Stdout, nil
	}
	return os.Create(os.Args[2])
}

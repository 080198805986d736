// Command ringdemo runs a synthetic producer/consumer pair over a
// ringbuf.RingBuffer, exposing live occupancy and throughput through a
// stats API, a WebSocket broadcast, and a Prometheus /metrics endpoint.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/kickstream/ringbuf"
	"github.com/kickstream/ringbuf/internal/config"
	"github.com/kickstream/ringbuf/internal/debugserver"
	"github.com/kickstream/ringbuf/ringbufmetrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("ringdemo: no .env file found, using environment variables only")
	}

	log.Println("ringdemo: starting")

	appConfig := config.Load()
	bufCfg := appConfig.Buffer
	serverCfg := appConfig.Server

	log.Printf("ringdemo: buffer capacity=%d producer_rate=%dHz batch=%d",
		bufCfg.Capacity, bufCfg.ProducerRateHz, bufCfg.BatchSize)

	rb := ringbuf.New[int64](bufCfg.Capacity)
	rawProducer, rawConsumer := rb.Split()
	producer := ringbufmetrics.WrapProducer("ringdemo", rawProducer)
	consumer := ringbufmetrics.WrapConsumer("ringdemo", rawConsumer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runProducer(ctx, producer, bufCfg.ProducerRateHz)
	go runConsumer(ctx, consumer)

	debugSrv, err := debugserver.StartDebugServer(debugserver.DebugConfig{
		Enabled:       true,
		ListenAddr:    serverCfg.DebugAddr,
		BasicAuthUser: serverCfg.BasicAuthUser,
		BasicAuthPass: serverCfg.BasicAuthPass,
	})
	if err != nil {
		log.Fatalf("ringdemo: debug server: %v", err)
	}

	statsSrv := debugserver.NewServer(debugserver.RouterConfig{
		Producer: producer,
		Consumer: consumer,
	})
	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := statsSrv.Start(addr, producer, consumer, 100*time.Millisecond); err != nil {
			log.Printf("ringdemo: stats server error: %v", err)
		}
	}()

	log.Printf("ringdemo: stats API on :%d, debug/metrics on %s", serverCfg.Port, serverCfg.DebugAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("ringdemo: shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	statsSrv.Stop(shutdownCtx)
	debugserver.StopDebugServer(shutdownCtx, debugSrv)

	producer.Close()
	consumer.Close()
}

// runProducer pushes a monotonically increasing counter at rateHz,
// throttled with a token-bucket limiter so the demo has a predictable,
// adjustable load instead of spinning flat out.
func runProducer(ctx context.Context, p *ringbufmetrics.Producer[int64], rateHz int) {
	limiter := rate.NewLimiter(rate.Limit(rateHz), max(rateHz/10, 1))
	var counter int64

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := p.Push(counter); err != nil {
			continue
		}
		counter++
	}
}

// runConsumer drains the buffer as fast as it can, simulating a downstream
// worker that is occasionally slower than the producer.
func runConsumer(ctx context.Context, c *ringbufmetrics.Consumer[int64]) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, err := c.Pop(); err != nil {
			time.Sleep(time.Millisecond)
		}
	}
}

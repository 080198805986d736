package ringbufmetrics

import (
	"sync/atomic"
	"time"

	"github.com/kickstream/ringbuf"
)

// ProducerStats is a point-in-time snapshot of a Producer's local counters,
// cheap enough to marshal into JSON on every debug-server tick.
type ProducerStats struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Slots    int    `json:"slots"`
	Pushed   uint64 `json:"pushed"`
	Rejected uint64 `json:"rejected"`
}

// ConsumerStats is the Consumer-side counterpart of ProducerStats.
type ConsumerStats struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Slots    int    `json:"slots"`
	Popped   uint64 `json:"popped"`
	Empty    uint64 `json:"empty"`
}

// Producer wraps a *ringbuf.Producer[T], recording Prometheus series and
// local atomic counters on every call. Name identifies the wrapped buffer
// in exported metric labels and JSON snapshots; it should be stable and
// low-cardinality (e.g. "audio-ring", "telemetry-ring"), never a per-request
// or per-connection value.
type Producer[T any] struct {
	name string
	p    *ringbuf.Producer[T]

	pushed   atomic.Uint64
	rejected atomic.Uint64
}

// WrapProducer returns a metrics-instrumented view of p.
func WrapProducer[T any](name string, p *ringbuf.Producer[T]) *Producer[T] {
	return &Producer[T]{name: name, p: p}
}

// Push pushes value, recording duration and outcome under p's name.
func (p *Producer[T]) Push(value T) error {
	start := time.Now()
	err := p.p.Push(value)
	if err != nil {
		p.rejected.Add(1)
		recordPushRejected(p.name)
		return err
	}
	p.pushed.Add(1)
	recordPush(p.name, time.Since(start))
	updateSlotsUsed(p.name, p.p.Capacity()-p.p.Slots())
	return err
}

// Capacity returns the wrapped buffer's capacity.
func (p *Producer[T]) Capacity() int { return p.p.Capacity() }

// Slots returns the wrapped buffer's currently free producer-side slots.
func (p *Producer[T]) Slots() int { return p.p.Slots() }

// Close closes the wrapped Producer and records the close in metrics.
func (p *Producer[T]) Close() {
	p.p.Close()
	recordClosed()
}

// Snapshot returns the current counters for this producer.
func (p *Producer[T]) Snapshot() ProducerStats {
	return ProducerStats{
		Name:     p.name,
		Capacity: p.p.Capacity(),
		Slots:    p.p.Slots(),
		Pushed:   p.pushed.Load(),
		Rejected: p.rejected.Load(),
	}
}

// Consumer wraps a *ringbuf.Consumer[T], mirroring Producer's instrumentation
// on the read side.
type Consumer[T any] struct {
	name string
	c    *ringbuf.Consumer[T]

	popped atomic.Uint64
	empty  atomic.Uint64
}

// WrapConsumer returns a metrics-instrumented view of c.
func WrapConsumer[T any](name string, c *ringbuf.Consumer[T]) *Consumer[T] {
	return &Consumer[T]{name: name, c: c}
}

// Pop pops the next value, recording duration and outcome under c's name.
func (c *Consumer[T]) Pop() (T, error) {
	start := time.Now()
	v, err := c.c.Pop()
	if err != nil {
		c.empty.Add(1)
		recordPopEmpty(c.name)
		return v, err
	}
	c.popped.Add(1)
	recordPop(c.name, time.Since(start))
	updateSlotsUsed(c.name, c.c.Slots())
	return v, nil
}

// Capacity returns the wrapped buffer's capacity.
func (c *Consumer[T]) Capacity() int { return c.c.Capacity() }

// Slots returns the number of slots currently available to read.
func (c *Consumer[T]) Slots() int { return c.c.Slots() }

// Close closes the wrapped Consumer and records the close in metrics.
func (c *Consumer[T]) Close() {
	c.c.Close()
	recordClosed()
}

// Snapshot returns the current counters for this consumer.
func (c *Consumer[T]) Snapshot() ConsumerStats {
	return ConsumerStats{
		Name:     c.name,
		Capacity: c.c.Capacity(),
		Slots:    c.c.Slots(),
		Popped:   c.popped.Load(),
		Empty:    c.empty.Load(),
	}
}

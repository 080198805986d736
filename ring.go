package ringbuf

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Destroyer is implemented by element types that own a resource needing
// release when a slot is discarded by the library without ever being handed
// back to a caller: a bulk PopSlices commit, or a RingBuffer drain once both
// endpoints are closed. Destroy is checked via type assertion on the slot's
// value first, then its address, so pointer-element types, pointer-receiver
// implementations, and value-receiver implementations are all detected; a
// single Pop never calls it, because ownership of the returned value passes
// to the caller.
type Destroyer interface {
	Destroy()
}

// Initializer is implemented by element types whose zero value is not a
// suitable starting point for in-place writes through PushSlices. Init is
// called at most once per slot index, lazily, when that slot first appears
// in a PushSlices First slice above the producer's initialized watermark —
// the Go equivalent of the original design's Default::default() watermark.
// Slots handed out only through a wrapped Second slice, or below the
// watermark, are not passed to Init. Types that don't implement Initializer
// keep the zero value Go already gives every slot.
type Initializer interface {
	Init()
}

// RingBuffer is the jointly-owned, immutable-after-construction control
// block shared between one Producer and one Consumer. Positions live in
// [0, 2*capacity) rather than [0, capacity): doubling the range is what lets
// head == tail mean "empty" and distance(head, tail) == capacity mean "full"
// without reserving a slot or keeping a separate count.
type RingBuffer[T any] struct {
	capacity uint64
	buf      []T

	_    cpu.CacheLinePad
	head atomic.Uint64
	_    cpu.CacheLinePad
	tail atomic.Uint64
	_    cpu.CacheLinePad

	// refs counts endpoints (Producer, Consumer) not yet closed. The side
	// that brings it to zero drains the remaining live slots.
	refs atomic.Int32
}

// New creates a RingBuffer with room for capacity elements of type T.
//
// New panics if capacity is less than one: an invalid capacity is a
// construction-time programming error, not a condition a realtime caller
// should have to branch on after the fact.
func New[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		panic("ringbuf: capacity must be greater than zero")
	}
	return &RingBuffer[T]{
		capacity: uint64(capacity),
		buf:      make([]T, capacity),
	}
}

// Capacity returns the number of slots the RingBuffer was created with.
func (rb *RingBuffer[T]) Capacity() int {
	return int(rb.capacity)
}

// Split divides the RingBuffer into its Producer and Consumer endpoints.
// Each endpoint must eventually be closed with Close; once both are closed,
// any slot still holding a live element is destroyed.
func (rb *RingBuffer[T]) Split() (*Producer[T], *Consumer[T]) {
	rb.refs.Store(2)
	p := &Producer[T]{rb: rb}
	c := &Consumer[T]{rb: rb}
	return p, c
}

// collapse folds a doubled position in [0, 2*capacity) to a slot index in
// [0, capacity) with a single conditional subtract, never a division.
func (rb *RingBuffer[T]) collapse(pos uint64) uint64 {
	if pos < rb.capacity {
		return pos
	}
	return pos - rb.capacity
}

// increment advances a doubled position by n slots, wrapping at 2*capacity.
func (rb *RingBuffer[T]) increment(pos, n uint64) uint64 {
	threshold := 2*rb.capacity - n
	if pos < threshold {
		return pos + n
	}
	return pos - threshold
}

// increment1 is the single-slot specialization of increment; it is cheaper
// than increment(pos, 1) on the hot path.
func (rb *RingBuffer[T]) increment1(pos uint64) uint64 {
	if pos < 2*rb.capacity-1 {
		return pos + 1
	}
	return 0
}

// distance returns the number of live slots between doubled positions a and
// b, always in [0, capacity].
func (rb *RingBuffer[T]) distance(a, b uint64) uint64 {
	if a <= b {
		return b - a
	}
	return 2*rb.capacity - a + b
}

// releaseEndpoint is called once by each of Producer.Close and
// Consumer.Close. The caller that observes the count reach zero performs the
// drain; by construction no other goroutine can still be touching rb at
// that point.
func (rb *RingBuffer[T]) releaseEndpoint() {
	if rb.refs.Add(-1) == 0 {
		rb.drain()
	}
}

// drain destroys every slot still holding a live element between head and
// tail. Both endpoints are closed by the time this runs, so the counters
// can be read without synchronization.
func (rb *RingBuffer[T]) drain() {
	head := rb.head.Load()
	tail := rb.tail.Load()
	for head != tail {
		destroySlot(&rb.buf[rb.collapse(head)])
		head = rb.increment(head, 1)
	}
}

// destroySlot invokes the element's Destroyer hook, if any, then resets the
// slot to its zero value so the buffer doesn't keep a stale reference alive
// for the garbage collector.
func destroySlot[T any](slot *T) {
	if d, ok := any(*slot).(Destroyer); ok {
		d.Destroy()
	} else if d, ok := any(slot).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*slot = zero
}

// initSlot default-constructs a slot the first time it is exposed through
// PushSlices: it invokes the element's Initializer hook, if any, leaving the
// Go zero value untouched otherwise.
func initSlot[T any](slot *T) {
	if i, ok := any(*slot).(Initializer); ok {
		i.Init()
	} else if i, ok := any(slot).(Initializer); ok {
		i.Init()
	}
}

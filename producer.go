package ringbuf

import "sync/atomic"

// Producer is the single-writer endpoint of a RingBuffer split.
//
// A Producer may be handed off between goroutines, but it must never be
// used by more than one goroutine at a time — the equivalent of rtrb's
// Producer being Send but not Sync.
type Producer[T any] struct {
	rb *RingBuffer[T]

	// headCached is a stale copy of rb.head, refreshed only when the fast
	// check can't already prove a push has room.
	headCached uint64
	// tailLocal is always in sync with the shared rb.tail: the producer is
	// its sole writer.
	tailLocal uint64
	// initialized is the high-water mark of slot indices ever written
	// through PushSlices.
	initialized uint64

	closed atomic.Bool
}

// Capacity returns the ring buffer's capacity.
func (p *Producer[T]) Capacity() int {
	return p.rb.Capacity()
}

// Push attempts to insert value at the tail of the queue. On success the
// value is moved into the slot and the tail is advanced. If the queue is
// full, value is returned unchanged wrapped in a *FullError so the caller
// can retry, spin, or drop it. Push is wait-free.
func (p *Producer[T]) Push(value T) error {
	tail, ok := p.nextTail()
	if !ok {
		return &FullError[T]{Value: value}
	}
	p.rb.buf[p.rb.collapse(tail)] = value
	next := p.rb.increment1(tail)
	p.rb.tail.Store(next)
	p.tailLocal = next
	return nil
}

// Slots refreshes the producer's cached head with an acquire load of the
// shared head and returns the number of slots currently available for
// writing.
func (p *Producer[T]) Slots() int {
	p.headCached = p.rb.head.Load()
	return int(p.rb.capacity - p.rb.distance(p.headCached, p.tailLocal))
}

// IsFull reports whether no slot is currently available for writing. It is
// cheaper than Slots() == 0 because it only refreshes the cached head when
// the fast check can't already prove room is available.
func (p *Producer[T]) IsFull() bool {
	_, ok := p.nextTail()
	return !ok
}

// String implements fmt.Stringer with a constant, field-free rendering:
// Producer's internal counters and cache padding aren't meant to leak into
// logs via a bare %v/%s.
func (p *Producer[T]) String() string {
	return "Producer { .. }"
}

// Close releases this Producer's hold on the shared RingBuffer. Once both
// the Producer and the Consumer have been closed, any slot still holding a
// live element is destroyed. Close is idempotent.
func (p *Producer[T]) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.rb.releaseEndpoint()
}

// nextTail returns the tail position to write to next, refreshing
// headCached from the shared head only when the fast check shows the queue
// might be full.
func (p *Producer[T]) nextTail() (uint64, bool) {
	tail := p.tailLocal
	if p.rb.distance(p.headCached, tail) == p.rb.capacity {
		p.headCached = p.rb.head.Load()
		if p.rb.distance(p.headCached, tail) == p.rb.capacity {
			return 0, false
		}
	}
	return tail, true
}

// PushSlices reserves n contiguous slots for in-place writing and returns a
// handle exposing them as two slices (first, then second if the reservation
// wraps past the end of the backing array). If fewer than n slots are
// available, it returns a *TooFewSlotsError reporting the actual count —
// this is a reserve-all-or-fail API, never a partial reservation.
//
// Slots of First at or above the initialized watermark are default
// -constructed lazily, at most once per index, via Initializer.Init if T
// implements it, or left at the Go zero value otherwise; the watermark is
// then raised past them. Slots below the watermark, which includes every
// slot of a wrapped Second, are not passed to Init. The returned handle
// must be committed with Commit once the caller is done writing.
func (p *Producer[T]) PushSlices(n int) (*PushSlices[T], error) {
	count := uint64(n)
	tail := p.tailLocal

	if p.rb.capacity-p.rb.distance(p.headCached, tail) < count {
		p.headCached = p.rb.head.Load()
		available := p.rb.capacity - p.rb.distance(p.headCached, tail)
		if available < count {
			return nil, &TooFewSlotsError{Available: int(available)}
		}
	}

	start := p.rb.collapse(tail)
	end := min(p.rb.capacity, start+count)
	for i := max(p.initialized, start); i < end; i++ {
		initSlot(&p.rb.buf[i])
	}
	p.initialized = max(p.initialized, end)

	firstLen := min(count, p.rb.capacity-start)
	secondLen := count - firstLen

	return &PushSlices[T]{
		First:    p.rb.buf[start : start+firstLen],
		Second:   p.rb.buf[0:secondLen],
		producer: p,
	}, nil
}

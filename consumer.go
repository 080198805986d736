package ringbuf

import "sync/atomic"

// Consumer is the single-reader endpoint of a RingBuffer split.
//
// A Consumer may be handed off between goroutines, but it must never be
// used by more than one goroutine at a time — the equivalent of rtrb's
// Consumer being Send but not Sync.
type Consumer[T any] struct {
	rb *RingBuffer[T]

	// headLocal is always in sync with the shared rb.head: the consumer is
	// its sole writer.
	headLocal uint64
	// tailCached is a stale copy of rb.tail, refreshed only when the fast
	// check can't already prove a read has data.
	tailCached uint64

	closed atomic.Bool
}

// Capacity returns the ring buffer's capacity.
func (c *Consumer[T]) Capacity() int {
	return c.rb.Capacity()
}

// Pop removes and returns the element at the head of the queue, advancing
// head by one. The element is moved out: ownership passes to the caller,
// and no Destroyer hook is invoked on it — only the library's own internal
// discard paths (PopSlices commit, RingBuffer drain) do that. If the queue
// is empty, Pop returns ErrEmpty and leaves the queue unchanged.
func (c *Consumer[T]) Pop() (T, error) {
	head, ok := c.nextHead()
	if !ok {
		var zero T
		return zero, ErrEmpty
	}
	idx := c.rb.collapse(head)
	value := c.rb.buf[idx]
	var zero T
	c.rb.buf[idx] = zero // slot cleared so the GC can reclaim what it held

	next := c.rb.increment1(head)
	c.rb.head.Store(next)
	c.headLocal = next
	return value, nil
}

// Peek returns a pointer to the element at the head of the queue without
// advancing it. The pointer is valid only until the next Pop/PopSlices
// commit. If the queue is empty, Peek returns ErrEmpty.
func (c *Consumer[T]) Peek() (*T, error) {
	head, ok := c.nextHead()
	if !ok {
		return nil, ErrEmpty
	}
	return &c.rb.buf[c.rb.collapse(head)], nil
}

// Slots refreshes the consumer's cached tail with an acquire load of the
// shared tail and returns the number of slots currently available for
// reading.
func (c *Consumer[T]) Slots() int {
	c.tailCached = c.rb.tail.Load()
	return int(c.rb.distance(c.headLocal, c.tailCached))
}

// IsEmpty reports whether no element is currently available for reading. It
// is cheaper than Slots() == 0 because it only refreshes the cached tail
// when the fast check can't already prove data is available.
func (c *Consumer[T]) IsEmpty() bool {
	_, ok := c.nextHead()
	return !ok
}

// String implements fmt.Stringer with a constant, field-free rendering:
// Consumer's internal counters aren't meant to leak into logs via a bare
// %v/%s.
func (c *Consumer[T]) String() string {
	return "Consumer { .. }"
}

// Close releases this Consumer's hold on the shared RingBuffer. Once both
// the Producer and the Consumer have been closed, any slot still holding a
// live element is destroyed. Close is idempotent.
func (c *Consumer[T]) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.rb.releaseEndpoint()
}

// nextHead returns the head position to read from next, refreshing
// tailCached from the shared tail only when the fast check shows the queue
// might be empty.
func (c *Consumer[T]) nextHead() (uint64, bool) {
	head := c.headLocal
	if head == c.tailCached {
		c.tailCached = c.rb.tail.Load()
		if head == c.tailCached {
			return 0, false
		}
	}
	return head, true
}

// advanceHead commits a bulk read of n slots starting at the pre-advance
// headLocal, publishing the new head with a release store.
func (c *Consumer[T]) advanceHead(n uint64) {
	head := c.rb.increment(c.headLocal, n)
	c.rb.head.Store(head)
	c.headLocal = head
}

// slices is the shared implementation behind PeekSlices and PopSlices: it
// reserves n contiguous slots for reading without advancing head.
func (c *Consumer[T]) slices(n int) (first, second []T, err error) {
	count := uint64(n)
	head := c.headLocal

	if c.rb.distance(head, c.tailCached) < count {
		c.tailCached = c.rb.tail.Load()
		available := c.rb.distance(head, c.tailCached)
		if available < count {
			return nil, nil, &TooFewSlotsError{Available: int(available)}
		}
	}

	start := c.rb.collapse(head)
	firstLen := min(count, c.rb.capacity-start)
	secondLen := count - firstLen

	return c.rb.buf[start : start+firstLen], c.rb.buf[0:secondLen], nil
}

// PeekSlices returns two read-only slices over n slots without advancing
// the read position. If fewer than n slots are available, it returns a
// *TooFewSlotsError reporting the actual count.
func (c *Consumer[T]) PeekSlices(n int) (*PeekSlices[T], error) {
	first, second, err := c.slices(n)
	if err != nil {
		return nil, err
	}
	return &PeekSlices[T]{First: first, Second: second}, nil
}

// PopSlices returns two read-only slices over n slots. If fewer than n
// slots are available, it returns a *TooFewSlotsError reporting the actual
// count — this is a reserve-all-or-fail API. The returned handle must be
// committed with Commit, which destructs every element in the slices and
// advances the read position.
func (c *Consumer[T]) PopSlices(n int) (*PopSlices[T], error) {
	first, second, err := c.slices(n)
	if err != nil {
		return nil, err
	}
	return &PopSlices[T]{First: first, Second: second, consumer: c}, nil
}

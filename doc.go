// Package ringbuf implements a bounded, realtime-safe single-producer
// single-consumer (SPSC) ring buffer.
//
// Pushing into and popping from the ring buffer is lock-free and wait-free:
// every operation completes in a bounded number of steps and returns
// immediately, whether or not the queue has room. This makes it suitable for
// exchanging values between a realtime thread (an audio callback, a render
// loop) and any other goroutine without blocking, allocating, or touching an
// OS synchronization primitive on the hot path.
//
// A RingBuffer is split into a Producer, which writes, and a Consumer, which
// reads. Each is meant to be used by exactly one goroutine at a time (they
// may be handed off between goroutines, but never shared by reference across
// more than one concurrently):
//
//	rb := ringbuf.New[int](2)
//	p, c := rb.Split()
//
//	_ = p.Push(1)
//	_ = p.Push(2)
//	if err := p.Push(3); err != nil {
//	    var full *ringbuf.FullError[int]
//	    errors.As(err, &full) // full.Value == 3
//	}
//
//	v, _ := c.Pop() // 1
//	v, _ = c.Pop()  // 2
//	_, err := c.Pop()
//	errors.Is(err, ringbuf.ErrEmpty) // true
//
// Bulk transfers are available through PushSlices, PopSlices and PeekSlices,
// which hand out up to two contiguous sub-slices ("first" and "second",
// non-empty second meaning the requested range wrapped around the end of the
// backing array) and must be committed explicitly once writes or reads are
// done; see the Commit method on PushSlices and PopSlices for details.
package ringbuf

package ringbuf

// PushSlices holds two mutable sub-slices reserved by Producer.PushSlices.
// First is empty only if zero slots were requested; Second is empty unless
// the reservation wrapped past the end of the backing array.
//
// Commit must be called exactly once, after the caller is done writing into
// First and Second, to publish the write and make the slots available to
// the Consumer. Forgetting to call it leaves the queue in a legal state,
// but the reserved slots are never published: the Producer's tail does not
// move, so its next reservation or Push hands out the same slots again.
type PushSlices[T any] struct {
	First, Second []T

	producer  *Producer[T]
	committed bool
}

// Commit publishes the reserved slots by advancing the producer's tail past
// First and Second. It is infallible and safe to call more than once — only
// the first call has an effect.
func (s *PushSlices[T]) Commit() {
	if s.committed {
		return
	}
	s.committed = true

	p := s.producer
	n := uint64(len(s.First) + len(s.Second))
	tail := p.rb.increment(p.tailLocal, n)
	p.rb.tail.Store(tail)
	p.tailLocal = tail
}

// PeekSlices holds two read-only sub-slices returned by
// Consumer.PeekSlices. Unlike PopSlices, it has no commit step: peeking
// never advances the read position or destructs anything.
type PeekSlices[T any] struct {
	First, Second []T
}

// PopSlices holds two read-only sub-slices reserved by Consumer.PopSlices.
// First is empty only if zero slots were requested; Second is empty unless
// the reservation wrapped past the end of the backing array.
//
// Commit must be called exactly once, after the caller is done reading
// First and Second, to destruct every element they cover and advance the
// read position. Forgetting to call it leaves the queue in a legal but
// stalled state: the reserved slots are never freed for the Producer to
// reuse.
type PopSlices[T any] struct {
	First, Second []T

	consumer  *Consumer[T]
	committed bool
}

// Commit destructs every element in First and Second, in that order, then
// advances the read position past them. Destruction happens before the
// head is published, so that by the time the producer observes the
// advance the slots are genuinely free for overwrite. It is infallible and
// safe to call more than once — only the first call has an effect.
func (s *PopSlices[T]) Commit() {
	if s.committed {
		return
	}
	s.committed = true

	for i := range s.First {
		destroySlot(&s.First[i])
	}
	for i := range s.Second {
		destroySlot(&s.Second[i])
	}
	s.consumer.advanceHead(uint64(len(s.First) + len(s.Second)))
}

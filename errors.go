package ringbuf

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by Pop and Peek when no element is available for
// reading. PopSlices and PeekSlices report a shortage with
// *TooFewSlotsError instead.
var ErrEmpty = errors.New("ringbuf: queue is empty")

// FullError is returned by Push when the queue has no room for value.
// Value holds the rejected element unchanged, so the caller can retry,
// spin, or drop it without having to reconstruct it.
type FullError[T any] struct {
	Value T
}

func (e *FullError[T]) Error() string {
	return "ringbuf: queue is full"
}

// TooFewSlotsError is returned by PushSlices, PopSlices and PeekSlices when
// fewer than the requested number of slots are available. Available is the
// actual count observed at the refresh point, so the caller can retry with
// that size instead of guessing.
type TooFewSlotsError struct {
	Available int
}

func (e *TooFewSlotsError) Error() string {
	return fmt.Sprintf("ringbuf: too few slots available (have %d)", e.Available)
}

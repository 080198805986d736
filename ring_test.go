package ringbuf

import (
	"errors"
	"testing"
)

func TestPushPopBasicSequence(t *testing.T) {
	rb := New[int](2)
	p, c := rb.Split()

	if err := p.Push(10); err != nil {
		t.Fatalf("push 10: %v", err)
	}
	if err := p.Push(20); err != nil {
		t.Fatalf("push 20: %v", err)
	}

	err := p.Push(30)
	var full *FullError[int]
	if !errors.As(err, &full) || full.Value != 30 {
		t.Fatalf("push 30 should report Full(30), got %v", err)
	}

	if v, err := c.Pop(); err != nil || v != 10 {
		t.Fatalf("pop 1 = (%v, %v), want (10, nil)", v, err)
	}
	if v, err := c.Pop(); err != nil || v != 20 {
		t.Fatalf("pop 2 = (%v, %v), want (20, nil)", v, err)
	}
	if _, err := c.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("pop 3 should be Empty, got %v", err)
	}
}

func TestBulkPushAfterPop(t *testing.T) {
	rb := New[int](3)
	p, c := rb.Split()

	mustPush(t, p, 1)
	mustPop(t, c, 1)

	slices, err := p.PushSlices(3)
	if err != nil {
		t.Fatalf("push_slices(3): %v", err)
	}
	if len(slices.First) != 2 || len(slices.Second) != 1 {
		t.Fatalf("first/second lengths = %d/%d, want 2/1", len(slices.First), len(slices.Second))
	}
	slices.First[0] = 20
	slices.First[1] = 30
	slices.Second[0] = 40
	slices.Commit()

	mustPop(t, c, 20)
	mustPop(t, c, 30)
	mustPop(t, c, 40)
}

func TestBulkPopTooFewThenSucceeds(t *testing.T) {
	rb := New[int](2)
	p, c := rb.Split()

	mustPush(t, p, 10)

	_, err := c.PopSlices(2)
	assertTooFewSlots(t, err, 1)

	mustPush(t, p, 20)

	slices, err := c.PopSlices(2)
	if err != nil {
		t.Fatalf("pop_slices(2): %v", err)
	}
	if !equalInts(slices.First, []int{10, 20}) || len(slices.Second) != 0 {
		t.Fatalf("first=%v second=%v, want [10 20] []", slices.First, slices.Second)
	}
	slices.Commit()

	if c.Slots() != 0 {
		t.Fatalf("slots() after drain = %d, want 0", c.Slots())
	}
}

type countingThing struct {
	drops *int
}

func (t *countingThing) Destroy() {
	*t.drops++
}

func TestDestructorAccounting(t *testing.T) {
	drops := 0
	rb := New[*countingThing](2)
	p, c := rb.Split()

	mustPush(t, p, &countingThing{drops: &drops}) // 1
	mustPush(t, p, &countingThing{drops: &drops}) // 2

	thing, err := c.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	// "thing" has been moved out of the queue but not yet destroyed.
	if drops != 0 {
		t.Fatalf("drops = %d before releasing the popped value, want 0", drops)
	}
	thing.Destroy()
	if drops != 1 {
		t.Fatalf("drops = %d after releasing the popped value, want 1", drops)
	}

	mustPush(t, p, &countingThing{drops: &drops}) // 3

	slices, err := c.PopSlices(2)
	if err != nil {
		t.Fatalf("pop_slices(2): %v", err)
	}
	if len(slices.First) != 1 || len(slices.Second) != 1 {
		t.Fatalf("first/second lengths = %d/%d, want 1/1", len(slices.First), len(slices.Second))
	}
	if drops != 1 {
		t.Fatalf("drops = %d before commit, want 1", drops)
	}
	slices.Commit()
	if drops != 3 {
		t.Fatalf("drops = %d after commit, want 3", drops)
	}

	mustPush(t, p, &countingThing{drops: &drops}) // 4

	p.Close()
	c.Close()
	if drops != 4 {
		t.Fatalf("drops = %d after closing the ring buffer, want 4", drops)
	}
}

func TestCapacityOneWraps(t *testing.T) {
	rb := New[int](1)
	p, c := rb.Split()

	mustPush(t, p, 1)
	var full *FullError[int]
	if !errors.As(p.Push(2), &full) {
		t.Fatal("second push on capacity-1 buffer should be Full")
	}
	mustPop(t, c, 1)
	if _, err := c.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatal("second pop on drained capacity-1 buffer should be Empty")
	}
}

func TestFullPushDoesNotAdvanceTail(t *testing.T) {
	rb := New[int](1)
	p, _ := rb.Split()
	mustPush(t, p, 1)

	before := p.Slots()
	err := p.Push(2)
	var full *FullError[int]
	if !errors.As(err, &full) || full.Value != 2 {
		t.Fatalf("push should fail with Full(2), got %v", err)
	}
	if p.Slots() != before {
		t.Fatalf("slots changed after a rejected push: %d -> %d", before, p.Slots())
	}
}

func TestExactCapacityPushes(t *testing.T) {
	const capacity = 8
	rb := New[int](capacity)
	p, c := rb.Split()

	for i := 0; i < capacity; i++ {
		mustPush(t, p, i)
	}
	var full *FullError[int]
	if !errors.As(p.Push(999), &full) {
		t.Fatal("push past capacity should be Full")
	}
	for i := 0; i < capacity; i++ {
		mustPop(t, c, i)
	}
}

func TestPositionWrapsAfterTwoLaps(t *testing.T) {
	const capacity = 4
	rb := New[int](capacity)
	p, c := rb.Split()

	for lap := 0; lap < 2; lap++ {
		for i := 0; i < capacity; i++ {
			mustPush(t, p, i)
		}
		for i := 0; i < capacity; i++ {
			mustPop(t, c, i)
		}
	}
	if p.Slots() != capacity {
		t.Fatalf("slots after 2*capacity push/pop cycles = %d, want %d", p.Slots(), capacity)
	}
	if !c.IsEmpty() {
		t.Fatal("consumer should be empty after 2*capacity push/pop cycles")
	}
}

func TestZeroSlotBulkOps(t *testing.T) {
	rb := New[int](2)
	p, c := rb.Split()

	pushed, err := p.PushSlices(0)
	if err != nil {
		t.Fatalf("push_slices(0): %v", err)
	}
	if len(pushed.First) != 0 || len(pushed.Second) != 0 {
		t.Fatal("push_slices(0) should return empty first/second")
	}
	pushed.Commit()

	popped, err := c.PopSlices(0)
	if err != nil {
		t.Fatalf("pop_slices(0): %v", err)
	}
	if len(popped.First) != 0 || len(popped.Second) != 0 {
		t.Fatal("pop_slices(0) should return empty first/second")
	}
	popped.Commit()
}

func TestPeekIsIdempotent(t *testing.T) {
	rb := New[int](1)
	p, c := rb.Split()
	mustPush(t, p, 42)

	v1, err := c.Peek()
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	v2, err := c.Peek()
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if *v1 != 42 || *v2 != 42 {
		t.Fatalf("repeated peeks returned %d, %d, want 42, 42", *v1, *v2)
	}
	if c.Slots() != 1 {
		t.Fatal("peek should not advance the read position")
	}
}

func TestPeekSlicesRepeatable(t *testing.T) {
	rb := New[int](2)
	p, c := rb.Split()
	mustPush(t, p, 1)
	mustPush(t, p, 2)

	a, err := c.PeekSlices(2)
	if err != nil {
		t.Fatalf("peek_slices: %v", err)
	}
	b, err := c.PeekSlices(2)
	if err != nil {
		t.Fatalf("peek_slices: %v", err)
	}
	if !equalInts(a.First, b.First) || !equalInts(a.Second, b.Second) {
		t.Fatal("repeated peek_slices should observe the same elements")
	}
	if c.Slots() != 2 {
		t.Fatal("peek_slices should not advance the read position")
	}
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(0) should panic")
		}
	}()
	New[int](0)
}

func mustPush[T any](t *testing.T, p *Producer[T], v T) {
	t.Helper()
	if err := p.Push(v); err != nil {
		t.Fatalf("push(%v): %v", v, err)
	}
}

func mustPop[T comparable](t *testing.T, c *Consumer[T], want T) {
	t.Helper()
	got, err := c.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if got != want {
		t.Fatalf("pop = %v, want %v", got, want)
	}
}

func assertTooFewSlots(t *testing.T, err error, want int) {
	t.Helper()
	var tfs *TooFewSlotsError
	if !errors.As(err, &tfs) {
		t.Fatalf("error = %v, want *TooFewSlotsError", err)
	}
	if tfs.Available != want {
		t.Fatalf("available = %d, want %d", tfs.Available, want)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package ringbufmetrics

import (
	"testing"

	"github.com/kickstream/ringbuf"
)

func TestProducerConsumerSnapshotCounters(t *testing.T) {
	rb := ringbuf.New[int](2)
	rawP, rawC := rb.Split()
	p := WrapProducer("test-counters", rawP)
	c := WrapConsumer("test-counters", rawC)

	if err := p.Push(1); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := p.Push(2); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := p.Push(3); err == nil {
		t.Fatal("push into a full buffer should fail")
	}

	ps := p.Snapshot()
	if ps.Pushed != 2 || ps.Rejected != 1 {
		t.Fatalf("producer snapshot = %+v, want pushed=2 rejected=1", ps)
	}

	if _, err := c.Pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, err := c.Pop(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, err := c.Pop(); err == nil {
		t.Fatal("pop from an empty buffer should fail")
	}

	cs := c.Snapshot()
	if cs.Popped != 2 || cs.Empty != 1 {
		t.Fatalf("consumer snapshot = %+v, want popped=2 empty=1", cs)
	}

	p.Close()
	c.Close()
}

package events

import (
	"container/heap"
	"sync"
	"time"
)

// PriorityBuffer holds per-event bounded queues of events emitted while a
// dispatcher is paused. spec.md explicitly scopes the priority-queue
// container itself out of this system's core engineering ("consumed as an
// external collaborator with a stated contract"); this file is exactly that
// thin collaborator, built on container/heap rather than a hand-rolled
// binary heap, ordered by the composite key (priority rank, enqueue
// timestamp) spec.md §4.3 describes.
type PriorityBuffer struct {
	mu       sync.Mutex
	capacity int
	queues   map[string]*eventHeap
	seq      uint64
}

// NewPriorityBuffer constructs a PriorityBuffer with the given per-event
// capacity.
func NewPriorityBuffer(capacity int) *PriorityBuffer {
	return &PriorityBuffer{capacity: capacity, queues: make(map[string]*eventHeap)}
}

// eventHeap implements heap.Interface ordered by (priority, enqueue seq).
// Using the monotonic seq rather than wall-clock time as the tiebreaker
// avoids platform clock-resolution ties while still satisfying "enqueue
// timestamp ascending" for events enqueued in call order.
type eventHeap []*QueuedEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Seq < h[j].Seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*QueuedEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Enqueue buffers payload for event, failing with *QueueFullError if the
// per-event queue is already at capacity (spec.md §4.3 backpressure rule).
func (b *PriorityBuffer) Enqueue(event string, payload any, priority Priority) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[event]
	if !ok {
		q = &eventHeap{}
		heap.Init(q)
		b.queues[event] = q
	}
	if q.Len() >= b.capacity {
		return &QueueFullError{Event: event, Capacity: b.capacity}
	}
	b.seq++
	heap.Push(q, &QueuedEvent{
		Seq:        b.seq,
		Event:      event,
		Payload:    payload,
		EnqueuedAt: time.Now(),
		Priority:   priority,
	})
	return nil
}

// DrainEvent removes and returns all queued events for a single event name
// in priority order, emptying that event's queue.
func (b *PriorityBuffer) DrainEvent(event string) []*QueuedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drainLocked(event)
}

func (b *PriorityBuffer) drainLocked(event string) []*QueuedEvent {
	q, ok := b.queues[event]
	if !ok {
		return nil
	}
	out := make([]*QueuedEvent, 0, q.Len())
	for q.Len() > 0 {
		out = append(out, heap.Pop(q).(*QueuedEvent))
	}
	delete(b.queues, event)
	return out
}

// DrainAll removes and returns every buffered event across all event names,
// merged and ordered globally by (priority, seq) — the order resume()
// replays buffered events in per spec.md §5.
func (b *PriorityBuffer) DrainAll() []*QueuedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	var all []*QueuedEvent
	for event := range b.queues {
		all = append(all, b.drainLocked(event)...)
	}
	merged := eventHeap(all)
	heap.Init(&merged)
	out := make([]*QueuedEvent, 0, len(all))
	for merged.Len() > 0 {
		out = append(out, heap.Pop(&merged).(*QueuedEvent))
	}
	return out
}

// Clear discards a single event's buffer without invoking anything.
func (b *PriorityBuffer) Clear(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.queues, event)
}

// ClearAll discards every buffered event across all event names.
func (b *PriorityBuffer) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queues = make(map[string]*eventHeap)
}

// Peek returns a snapshot (not a drain) of the queued events for event, in
// priority order, without removing them.
func (b *PriorityBuffer) Peek(event string) []*QueuedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[event]
	if !ok {
		return nil
	}
	cp := make(eventHeap, q.Len())
	copy(cp, *q)
	heap.Init(&cp)
	out := make([]*QueuedEvent, 0, cp.Len())
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(*QueuedEvent))
	}
	return out
}

// PendingCount reports how many events are currently buffered for event.
func (b *PriorityBuffer) PendingCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[event]
	if !ok {
		return 0
	}
	return q.Len()
}

// Size reports the total number of buffered events across all event names.
func (b *PriorityBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, q := range b.queues {
		total += q.Len()
	}
	return total
}

// namesSnapshot returns the event names that currently have a (possibly
// empty) queue allocated.
func (b *PriorityBuffer) namesSnapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.queues))
	for name := range b.queues {
		out = append(out, name)
	}
	return out
}

// PrunedEmpty drops empty per-event queues, returning the event names that
// were pruned. Used by the GC ticker (spec.md §4.6).
func (b *PriorityBuffer) PrunedEmpty() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var pruned []string
	for event, q := range b.queues {
		if q.Len() == 0 {
			delete(b.queues, event)
			pruned = append(pruned, event)
		}
	}
	return pruned
}

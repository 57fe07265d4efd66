package events

import (
	"context"
	"sort"
)

// Pause sets the paused flag: subsequent emits enqueue into the priority
// buffer instead of dispatching (spec.md §4.3).
func (d *Dispatcher) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.paused.CompareAndSwap(false, true) {
		d.emitLifecycle(LifecycleEventPaused, nil)
	}
}

// Resume clears the paused flag and drains every buffered event in global
// (priority, enqueue order) order, re-emitting each on the event it was
// buffered for (spec.md §4.3, §5).
func (d *Dispatcher) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.paused.CompareAndSwap(true, false) {
		return
	}
	d.emitLifecycle(LifecycleEventResumed, nil)
	d.replay(d.buffer.DrainAll())
}

func (d *Dispatcher) replay(queued []*QueuedEvent) {
	ctx := context.Background()
	for _, qe := range queued {
		_, _ = d.dispatch(ctx, qe.Event, qe.Payload, EmitOptions{Priority: qe.Priority}, true)
	}
}

// IsPaused reports whether the dispatcher is currently paused.
func (d *Dispatcher) IsPaused() bool { return d.paused.Load() }

// Flush dispatches one event's buffered entries immediately, even while the
// dispatcher is paused as a whole (spec.md §4.3: "temporarily clears the
// pause flag for that scope").
func (d *Dispatcher) Flush(ctx context.Context, event string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	queued := d.buffer.DrainEvent(event)
	if len(queued) == 0 {
		return false, nil
	}
	for _, qe := range queued {
		if _, err := d.dispatch(ctx, qe.Event, qe.Payload, EmitOptions{Priority: qe.Priority}, true); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Drain awaits scheduler quiescence, then — if the dispatcher is not
// paused — runs the resume replay path for any events buffered in the
// meantime (spec.md §4.3).
func (d *Dispatcher) Drain(ctx context.Context) {
	d.sched.Drain()
	if !d.paused.Load() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.replay(d.buffer.DrainAll())
	}
}

// ClearBuffer discards buffered events for event (or every event, if event
// is the empty string) without invoking anything.
func (d *Dispatcher) ClearBuffer(event string) {
	if event == "" {
		d.buffer.ClearAll()
		return
	}
	d.buffer.Clear(event)
}

// GetQueued returns a snapshot of the events currently buffered for event
// (or, if event is empty, across every event, in global priority order).
func (d *Dispatcher) GetQueued(event string) []QueuedEvent {
	var raw []*QueuedEvent
	if event == "" {
		for _, name := range d.bufferedEventNames() {
			raw = append(raw, d.buffer.Peek(name)...)
		}
		sort.SliceStable(raw, func(i, j int) bool {
			if raw[i].Priority != raw[j].Priority {
				return raw[i].Priority < raw[j].Priority
			}
			return raw[i].Seq < raw[j].Seq
		})
	} else {
		raw = d.buffer.Peek(event)
	}
	out := make([]QueuedEvent, len(raw))
	for i, qe := range raw {
		out[i] = *qe
	}
	return out
}

func (d *Dispatcher) bufferedEventNames() []string {
	names := map[string]struct{}{}
	for _, name := range d.store.eventNames() {
		names[name] = struct{}{}
	}
	// eventNames only covers events with live subscriptions; a paused
	// dispatcher may still have buffered events for names whose last
	// subscriber already unsubscribed, so also ask the buffer directly.
	for _, name := range d.buffer.namesSnapshot() {
		names[name] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	return out
}

// GetPendingCount reports how many events are buffered for event (or,
// summed across every event, if event is the empty string).
func (d *Dispatcher) GetPendingCount(event string) int {
	if event != "" {
		return d.buffer.PendingCount(event)
	}
	total := 0
	for _, name := range d.bufferedEventNames() {
		total += d.buffer.PendingCount(name)
	}
	return total
}

// GetBufferSize returns the configured per-event buffer capacity.
func (d *Dispatcher) GetBufferSize() int { return d.opts.BufferSize }

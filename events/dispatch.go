package events

import (
	"context"
	"time"
)

// EmitAsync implements spec.md §4.2. If the dispatcher is paused, the event
// is buffered instead of dispatched and the call returns (true, nil) on
// success or (false, *QueueFullError) if the buffer is at capacity. If no
// subscriptions match, EmitAsync records emit timing and returns (false,
// nil). Otherwise every matching subscription's callback is submitted to
// the Scheduler and awaited, and EmitAsync returns (true, err) where err
// reflects the configured CaptureRejections error policy.
func (d *Dispatcher) EmitAsync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	if err := d.checkDisposed(); err != nil {
		return false, err
	}
	var o EmitOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if !o.Priority.valid() {
		o.Priority = PriorityNormal
	}

	if d.paused.Load() {
		if err := d.buffer.Enqueue(event, payload, o.Priority); err != nil {
			d.emitLifecycle(LifecycleEventBufferFull, map[string]any{"event": event})
			return false, err
		}
		return true, nil
	}

	return d.dispatch(ctx, event, payload, o, true)
}

// EmitSync implements spec.md §4.2's synchronous path: subscriptions run in
// the calling goroutine, in priority order, without the Scheduler's
// concurrency admission. Pause/buffer semantics are identical to EmitAsync.
func (d *Dispatcher) EmitSync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	if err := d.checkDisposed(); err != nil {
		return false, err
	}
	var o EmitOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if !o.Priority.valid() {
		o.Priority = PriorityNormal
	}

	if d.paused.Load() {
		if err := d.buffer.Enqueue(event, payload, o.Priority); err != nil {
			d.emitLifecycle(LifecycleEventBufferFull, map[string]any{"event": event})
			return false, err
		}
		return true, nil
	}

	return d.dispatch(ctx, event, payload, o, false)
}

// dispatch implements the shared body of steps 2-8 of spec.md §4.2. When
// async is true, callbacks run through the Scheduler (possibly
// concurrently); when false, they run sequentially in the caller's
// goroutine.
func (d *Dispatcher) dispatch(ctx context.Context, event string, payload any, o EmitOptions, async bool) (bool, error) {
	start := time.Now()
	ctx = withEmitPriority(ctx, o.Priority)
	subs := d.store.byEvent(event)
	if len(subs) == 0 {
		d.metrics.RecordEmit(event, time.Since(start))
		return false, nil
	}
	ordered := sortSubscriptions(subs)

	// Detach once-subscriptions before invocation so a re-entrant emit from
	// within a callback cannot observe (and redeliver) them.
	for _, s := range ordered {
		if s.Once {
			d.store.deleteByID(s.ID)
		}
	}

	var err error
	if async {
		err = d.runAsync(ctx, event, payload, ordered)
	} else {
		err = d.runSync(ctx, event, payload, ordered)
	}

	d.metrics.RecordEmit(event, time.Since(start))
	return true, err
}

func (d *Dispatcher) invoke(ctx context.Context, event string, payload any, sub *Subscription) error {
	start := time.Now()
	err := sub.callback(ctx, payload)
	d.metrics.RecordExecution(event, time.Since(start), err != nil)
	if !sub.Once {
		d.store.markExecuted(sub.ID, time.Now())
	}
	return err
}

func (d *Dispatcher) runSync(ctx context.Context, event string, payload any, ordered []*Subscription) error {
	var firstErr error
	for _, sub := range ordered {
		if err := d.invoke(ctx, event, payload, sub); err != nil {
			wrapped := &HandlerError{Event: event, Cause: err}
			if d.opts.CaptureRejections {
				d.forwardError(ctx, wrapped)
			} else if firstErr == nil {
				firstErr = wrapped
			}
		}
	}
	return firstErr
}

func (d *Dispatcher) runAsync(ctx context.Context, event string, payload any, ordered []*Subscription) error {
	futures := make([]*Future, len(ordered))
	for i, sub := range ordered {
		sub := sub
		futures[i] = d.sched.Submit(ctx, func(taskCtx context.Context) error {
			return d.invoke(taskCtx, event, payload, sub)
		})
	}

	if d.opts.CaptureRejections {
		// Settle-all: every future is awaited regardless of failure.
		for _, f := range futures {
			if err := f.Wait(ctx); err != nil {
				d.forwardError(ctx, &HandlerError{Event: event, Cause: err})
			}
		}
		return nil
	}

	// Fail-fast: return the first failure; remaining futures are still
	// awaited so the Scheduler's bookkeeping stays consistent, but their
	// results are discarded.
	var firstErr error
	for _, f := range futures {
		if err := f.Wait(ctx); err != nil && firstErr == nil {
			firstErr = &HandlerError{Event: event, Cause: err}
		}
	}
	return firstErr
}

// forwardError re-emits a handler failure through ErrorEventName. If that
// emit has no listeners, the failure is logged rather than propagated
// further (spec.md §4.2 edge cases, §7).
func (d *Dispatcher) forwardError(ctx context.Context, herr *HandlerError) {
	if herr.Event == ErrorEventName {
		// Avoid recursing through the error event's own forwarding path.
		logHandlerError(herr)
		return
	}
	ok, _ := d.EmitAsync(ctx, ErrorEventName, herr)
	if !ok {
		logHandlerError(herr)
	}
}

// BatchEvent is one entry of an EmitBatch call.
type BatchEvent struct {
	Event   string
	Payload any
	Options EmitOptions
}

// EmitBatch emits each entry via EmitAsync, returning a result list
// positionally aligned to the input; individual emits are not serialized
// against one another beyond whatever the Scheduler's concurrency limit
// imposes (spec.md §5).
func (d *Dispatcher) EmitBatch(ctx context.Context, events []BatchEvent) []bool {
	out := make([]bool, len(events))
	for i, be := range events {
		ok, _ := d.EmitAsync(ctx, be.Event, be.Payload, be.Options)
		out[i] = ok
	}
	return out
}

// Pipe forwards every emit of event on this dispatcher to targetEvent (or
// event itself, if targetEvent is empty) on other, returning a disposer
// that stops the forwarding.
func (d *Dispatcher) Pipe(event string, other *Dispatcher, targetEvent string) UnsubscribeFunc {
	if targetEvent == "" {
		targetEvent = event
	}
	return d.On(event, func(ctx context.Context, payload any) error {
		_, err := other.EmitAsync(ctx, targetEvent, payload)
		return err
	})
}

package events

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Dispatcher is the Emitter described throughout spec.md §4: it owns the
// subscription store, the per-event priority buffers, the scheduler, the
// metrics sink, and the GC ticker, and exposes the public pub/sub API.
// A Dispatcher's internal state is owned exclusively by it; callers mutate
// it only through these methods (spec.md §5).
type Dispatcher struct {
	opts Options

	store   *subscriptionStore
	buffer  *PriorityBuffer
	sched   *Scheduler
	metrics *MetricsSink
	gc      *gcTicker
	emitter LifecycleEmitter

	paused   atomic.Bool
	disposed atomic.Bool
	seqCtr   atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex // serializes pause/resume/flush/drain replay and live option updates; emits do not take it
}

// New constructs a Dispatcher with the given options.
func New(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		opts:    opts,
		store:   newSubscriptionStore(),
		buffer:  NewPriorityBuffer(opts.BufferSize),
		sched:   NewScheduler(opts.ConcurrencyLimit),
		metrics: NewMetricsSink(),
		ctx:     ctx,
		cancel:  cancel,
	}
	d.gc = newGCTicker(d.sweep)
	d.gc.Reconfigure(opts.GCInterval)
	d.gc.Start()
	return d
}

// SetLifecycleEmitter installs the sink notified of dispatcher lifecycle
// transitions. Pass nil to disable notifications.
func (d *Dispatcher) SetLifecycleEmitter(e LifecycleEmitter) { d.emitter = e }

func (d *Dispatcher) checkDisposed() error {
	if d.disposed.Load() {
		return ErrInvalidState
	}
	return nil
}

// On registers a persistent subscription on event, returning its
// unsubscribe token.
func (d *Dispatcher) On(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	tok, _ := d.subscribe(event, cb, false, opts...)
	return tok
}

// Once registers a subscription that fires at most once, detached from the
// store before its callback runs.
func (d *Dispatcher) Once(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	tok, _ := d.subscribe(event, cb, true, opts...)
	return tok
}

func (d *Dispatcher) subscribe(event string, cb Callback, once bool, opts ...SubscribeOptions) (UnsubscribeFunc, SubscriptionID) {
	var o SubscribeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if !o.Priority.valid() {
		o.Priority = PriorityNormal
	}

	sub := &Subscription{
		ID:        newSubscriptionID(),
		Event:     event,
		Once:      once,
		Priority:  o.Priority,
		CreatedAt: time.Now(),
		callback:  cb,
		seq:       d.seqCtr.Add(1),
	}
	d.store.insert(sub)

	if n := d.store.count(event); d.opts.MaxListeners > 0 && n >= d.opts.MaxListeners {
		slog.Warn("events: possible listener leak detected",
			"event", event, "count", n, "max_listeners", d.opts.MaxListeners)
	}

	var once32 atomic.Bool
	return func() bool {
		if !once32.CompareAndSwap(false, true) {
			return false
		}
		_, ok := d.store.deleteByID(sub.ID)
		return ok
	}, sub.ID
}

// Off removes subscriptions on event. If cb is nil, every subscription on
// event is removed; otherwise only those whose callback has the same
// underlying function pointer as cb are removed (Go function values are not
// comparable by ==, so identity is matched via reflection — OffByID is the
// precise alternative when that distinction matters, per spec.md §9's
// "Dynamic callbacks as opaque values" note).
func (d *Dispatcher) Off(event string, cb Callback) bool {
	var match func(*Subscription) bool
	if cb != nil {
		target := reflect.ValueOf(cb).Pointer()
		match = func(s *Subscription) bool { return reflect.ValueOf(s.callback).Pointer() == target }
	}
	removed := d.store.deleteByEvent(event, match)
	return len(removed) > 0
}

// OffByID removes a single subscription by its token id.
func (d *Dispatcher) OffByID(id SubscriptionID) bool {
	_, ok := d.store.deleteByID(id)
	return ok
}

// RemoveAll removes every subscription on event, or on every event if event
// is the empty string. Any previously-returned unsubscribe tokens for the
// removed subscriptions become no-ops (their first call now returns false).
func (d *Dispatcher) RemoveAll(event string) *Dispatcher {
	if event == "" {
		d.store.deleteAll()
	} else {
		d.store.deleteByEvent(event, nil)
	}
	return d
}

// Has reports whether event currently has at least one subscription.
func (d *Dispatcher) Has(event string) bool { return d.store.count(event) > 0 }

// ListenerCount reports the number of subscriptions on event.
func (d *Dispatcher) ListenerCount(event string) int { return d.store.count(event) }

// ListenerCountAll reports the number of subscriptions across all events.
func (d *Dispatcher) ListenerCountAll() int { return d.store.totalCount() }

// EventNames returns the distinct event names with at least one
// subscription.
func (d *Dispatcher) EventNames() []string { return d.store.eventNames() }

// Metrics returns the dispatcher's metrics sink, for read-only reporting
// surfaces (cmd/eventrandctl's /metrics endpoint).
func (d *Dispatcher) Metrics() *MetricsSink { return d.metrics }

// IsDisposed reports whether Dispose has been called.
func (d *Dispatcher) IsDisposed() bool { return d.disposed.Load() }

// GetSubscriptions returns a snapshot of the subscriptions on event, sorted
// by dispatch order (priority, then registration order).
func (d *Dispatcher) GetSubscriptions(event string) []Subscription {
	subs := d.store.byEvent(event)
	ordered := sortSubscriptions(subs)
	out := make([]Subscription, len(ordered))
	for i, s := range ordered {
		out[i] = *s
	}
	return out
}

// BatchSubscribe registers multiple callbacks against a single event in one
// call, returning their subscription ids in order.
func (d *Dispatcher) BatchSubscribe(event string, cbs []Callback, opts ...SubscribeOptions) []SubscriptionID {
	ids := make([]SubscriptionID, len(cbs))
	for i, cb := range cbs {
		_, id := d.subscribe(event, cb, false, opts...)
		ids[i] = id
	}
	return ids
}

// BatchUnsubscribe removes every subscription named in ids, returning how
// many were actually present.
func (d *Dispatcher) BatchUnsubscribe(ids []SubscriptionID) int {
	n := 0
	for _, id := range ids {
		if d.OffByID(id) {
			n++
		}
	}
	return n
}

func sortSubscriptions(subs []*Subscription) []*Subscription {
	out := make([]*Subscription, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Dispose is terminal: it releases all subscriptions, buffers and metrics,
// and stops the GC ticker. dispose is non-awaiting — in-flight scheduler
// tasks are abandoned, not cancelled (spec.md §4.5); call Drain first if
// quiescence is required.
func (d *Dispatcher) Dispose() {
	if !d.disposed.CompareAndSwap(false, true) {
		return
	}
	d.gc.RunNow()
	d.gc.Stop()
	d.cancel()
	d.store.deleteAll()
	d.buffer.ClearAll()
	d.metrics.Reset("")
	d.emitLifecycle(LifecycleEventDisposed, nil)
}

// sweep is the GC tick body: prune metrics for events with no remaining
// subscriptions, and drop empty priority queues (spec.md §4.6).
func (d *Dispatcher) sweep() {
	keep := map[string]struct{}{}
	for _, name := range d.store.eventNames() {
		keep[name] = struct{}{}
	}
	prunedMetrics := d.metrics.PruneExceptFor(keep)
	prunedQueues := d.buffer.PrunedEmpty()
	if len(prunedMetrics) > 0 || len(prunedQueues) > 0 {
		d.emitLifecycle(LifecycleEventGCSwept, map[string]any{
			"pruned_metrics": prunedMetrics,
			"pruned_queues":  prunedQueues,
		})
	}
}

package events

// GetMetrics returns the rolling emit/execution metrics recorded for event.
func (d *Dispatcher) GetMetrics(event string) EmitMetrics { return d.metrics.Get(event) }

// ResetMetrics clears recorded metrics for event, or for every event if
// event is the empty string.
func (d *Dispatcher) ResetMetrics(event string) { d.metrics.Reset(event) }

// MemoryUsage is the best-effort size report returned by GetMemoryUsage.
// Exact byte accounting is host-dependent and explicitly not a correctness
// requirement (spec.md §9 Open Questions); these are heuristic estimates
// keyed by the well-known buckets spec.md §4.6 names.
type MemoryUsage struct {
	Subscriptions    int64
	SubscriptionMaps int64
	PriorityQueues   int64
	BufferTotals     int64
	Total            int64
}

// approxSubscriptionBytes is a rough per-subscription footprint estimate
// (id, timestamps, counters, callback pointer, bookkeeping overhead).
const approxSubscriptionBytes = 128

// approxQueuedEventBytes is a rough per-buffered-event footprint estimate.
const approxQueuedEventBytes = 96

// GetMemoryUsage returns a heuristic, best-effort size report for this
// dispatcher's live state (spec.md §4.6).
func (d *Dispatcher) GetMemoryUsage() MemoryUsage {
	subCount := int64(d.store.totalCount())
	eventCount := int64(len(d.store.eventNames()))
	bufferCount := int64(d.buffer.Size())

	u := MemoryUsage{
		Subscriptions:    subCount * approxSubscriptionBytes,
		SubscriptionMaps: eventCount * 48, // per-event index bucket overhead
		PriorityQueues:   int64(len(d.buffer.namesSnapshot())) * 64,
		BufferTotals:     bufferCount * approxQueuedEventBytes,
	}
	u.Total = u.Subscriptions + u.SubscriptionMaps + u.PriorityQueues + u.BufferTotals
	return u
}

package events

import (
	"context"
	"sync"
)

// EventGroup is a scoped façade over a base dispatcher: every On/Once call
// made through the group is tracked, and Dispose removes exactly those
// subscriptions, leaving anything else registered on base untouched
// (spec.md §4.4).
type EventGroup struct {
	base *Dispatcher

	mu     sync.Mutex
	unsubs []UnsubscribeFunc
}

// NewGroup returns an EventGroup scoped to base.
func NewGroup(base *Dispatcher) *EventGroup {
	return &EventGroup{base: base}
}

// On subscribes through the base dispatcher and tracks the subscription for
// this group's Dispose.
func (g *EventGroup) On(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	return g.track(g.base.On(event, cb, opts...))
}

// Once subscribes through the base dispatcher and tracks the subscription
// for this group's Dispose.
func (g *EventGroup) Once(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	return g.track(g.base.Once(event, cb, opts...))
}

// EmitAsync delegates to the base dispatcher unchanged; a group scopes
// subscriptions, not emits.
func (g *EventGroup) EmitAsync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	return g.base.EmitAsync(ctx, event, payload, opts...)
}

// EmitSync delegates to the base dispatcher unchanged.
func (g *EventGroup) EmitSync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	return g.base.EmitSync(ctx, event, payload, opts...)
}

// track records unsub for this group's Dispose and returns it unchanged so
// the caller can also unsubscribe individually before Dispose runs.
func (g *EventGroup) track(unsub UnsubscribeFunc) UnsubscribeFunc {
	g.mu.Lock()
	g.unsubs = append(g.unsubs, unsub)
	g.mu.Unlock()
	return unsub
}

// Dispose removes every subscription made through this group, leaving
// unrelated subscriptions on the base dispatcher intact.
func (g *EventGroup) Dispose() {
	g.mu.Lock()
	unsubs := g.unsubs
	g.unsubs = nil
	g.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

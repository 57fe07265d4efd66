package events

import (
	"context"
	"sync"
)

// ProxyRoute describes one source→target mapping installed by Proxy.
type ProxyRoute struct {
	Source string
	Target string
	// Transform optionally rewrites the payload en route. A nil Transform
	// forwards the payload unchanged.
	Transform func(any) any
}

// ProxyOptions configures Proxy.
type ProxyOptions struct {
	// PreservePriority propagates the source emit's priority to the
	// forwarded call instead of using the target dispatcher's default.
	PreservePriority bool
	// Bidirectional also installs the reverse route (Target→Source) for
	// every ProxyRoute, guarded by a per-route cycle-break set so that a
	// forwarded emit never immediately bounces back (spec.md §4.4).
	Bidirectional bool
}

// Proxy wires one or more source→target event routes between two
// dispatchers, forwarding emits (optionally payload-transformed) from
// source to dest. Returns a disposer tearing down every installed route.
func Proxy(source, dest *Dispatcher, routes []ProxyRoute, opts ...ProxyOptions) UnsubscribeFunc {
	var o ProxyOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	// forwarding tracks, per route key ("<sourceEvent>><targetEvent>"),
	// whether a forward is currently in flight, so a bidirectional route
	// cannot immediately re-trigger itself — the "currently forwarding" set
	// spec.md §4.4 calls for to break cycles. While a key is in flight,
	// any other emit arriving on that route is not forwarded.
	fw := &forwardGuard{inflight: make(map[string]struct{})}

	var unsubs []UnsubscribeFunc
	for _, r := range routes {
		unsubs = append(unsubs, installRoute(fw, source, dest, r.Source, r.Target, r.Transform, o.PreservePriority))
		if o.Bidirectional {
			unsubs = append(unsubs, installRoute(fw, dest, source, r.Target, r.Source, nil, o.PreservePriority))
		}
	}

	return combineUnsubs(unsubs)
}

type forwardGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func (g *forwardGuard) enter(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inflight[key]; ok {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *forwardGuard) leave(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, key)
}

func installRoute(fw *forwardGuard, from, to *Dispatcher, sourceEvent, targetEvent string, transform func(any) any, preservePriority bool) UnsubscribeFunc {
	routeKey := sourceEvent + ">" + targetEvent
	return from.On(sourceEvent, func(ctx context.Context, payload any) error {
		if !fw.enter(routeKey) {
			return nil
		}
		defer fw.leave(routeKey)

		out := payload
		if transform != nil {
			out = transform(payload)
		}

		var opts []EmitOptions
		if preservePriority {
			if p, ok := currentEmitPriority(ctx); ok {
				opts = append(opts, EmitOptions{Priority: p})
			}
		}
		_, err := to.EmitAsync(ctx, targetEvent, out, opts...)
		return err
	})
}

// emitPriorityKey is the context key Dispatcher.dispatch stamps the active
// emit's priority under, so PreservePriority routes can read it back.
type emitPriorityKey struct{}

func withEmitPriority(ctx context.Context, p Priority) context.Context {
	return context.WithValue(ctx, emitPriorityKey{}, p)
}

func currentEmitPriority(ctx context.Context) (Priority, bool) {
	p, ok := ctx.Value(emitPriorityKey{}).(Priority)
	return p, ok
}

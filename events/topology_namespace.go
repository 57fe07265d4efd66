package events

import (
	"context"
	"strings"
)

// NamespacedDispatcher re-exposes a source dispatcher's events under a
// "<prefix>:<name>" facade (spec.md §4.4). On/Once/EmitAsync/EmitSync all
// require names carrying the prefix; a bare name fails with ErrInvalidName.
type NamespacedDispatcher struct {
	*Dispatcher
	prefix string
	source *Dispatcher
	bridged map[string]UnsubscribeFunc
}

// Namespace constructs a façade over source whose event names are all
// "<prefix>:<name>". Every source event the source already has subscribers
// for is bridged immediately; any event first subscribed to on the source
// afterwards is bridged on-demand the next time it is subscribed to on the
// facade, the same on-demand pattern ExcludeDispatcher uses (spec.md §9's
// note that a generic Dispatcher has no fixed event catalog to enumerate
// up front).
func Namespace(prefix string, source *Dispatcher) *NamespacedDispatcher {
	nd := &NamespacedDispatcher{
		Dispatcher: New(source.opts),
		prefix:     prefix,
		source:     source,
		bridged:    make(map[string]UnsubscribeFunc),
	}

	for _, event := range source.EventNames() {
		nd.bridgeIfNeeded(event)
	}

	return nd
}

func (nd *NamespacedDispatcher) hasPrefix(event string) bool {
	p := nd.prefix + ":"
	return len(event) > len(p) && event[:len(p)] == p
}

// bridgeIfNeeded installs a forwarding subscription on the source for
// sourceEvent, unless one is already installed. sourceEvent is the bare
// (unprefixed) name as it exists on source.
func (nd *NamespacedDispatcher) bridgeIfNeeded(sourceEvent string) {
	if _, already := nd.bridged[sourceEvent]; already {
		return
	}
	namespaced := nd.prefix + ":" + sourceEvent
	nd.bridged[sourceEvent] = nd.source.On(sourceEvent, func(ctx context.Context, payload any) error {
		_, err := nd.Dispatcher.EmitAsync(ctx, namespaced, payload)
		return err
	})
}

// On shadows Dispatcher.On to require the namespace prefix and lazily
// bridge the corresponding source event before registering locally.
func (nd *NamespacedDispatcher) On(event string, cb Callback, opts ...SubscribeOptions) (UnsubscribeFunc, error) {
	if !nd.hasPrefix(event) {
		return nil, ErrInvalidName
	}
	nd.bridgeIfNeeded(strings.TrimPrefix(event, nd.prefix+":"))
	return nd.Dispatcher.On(event, cb, opts...), nil
}

// Once shadows Dispatcher.Once to require the namespace prefix and lazily
// bridge the corresponding source event before registering locally.
func (nd *NamespacedDispatcher) Once(event string, cb Callback, opts ...SubscribeOptions) (UnsubscribeFunc, error) {
	if !nd.hasPrefix(event) {
		return nil, ErrInvalidName
	}
	nd.bridgeIfNeeded(strings.TrimPrefix(event, nd.prefix+":"))
	return nd.Dispatcher.Once(event, cb, opts...), nil
}

// EmitAsync requires event to carry the namespace prefix.
func (nd *NamespacedDispatcher) EmitAsync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	if !nd.hasPrefix(event) {
		return false, ErrInvalidName
	}
	return nd.Dispatcher.EmitAsync(ctx, event, payload, opts...)
}

// EmitSync requires event to carry the namespace prefix.
func (nd *NamespacedDispatcher) EmitSync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	if !nd.hasPrefix(event) {
		return false, ErrInvalidName
	}
	return nd.Dispatcher.EmitSync(ctx, event, payload, opts...)
}

// Dispose tears down every forwarding subscription installed on the source
// dispatcher in addition to the embedded Dispatcher's own teardown.
func (nd *NamespacedDispatcher) Dispose() {
	for _, unsub := range nd.bridged {
		unsub()
	}
	nd.bridged = map[string]UnsubscribeFunc{}
	nd.Dispatcher.Dispose()
}

package events

// MergedDispatcher is the destination returned by Merge: a *Dispatcher that
// re-emits every event from every input dispatcher. Because a generic
// Dispatcher has no fixed event catalog, forwarding from each source is
// installed lazily the same way ExcludeDispatcher does: subscribing to a
// new event name on the returned dispatcher bridges that event from every
// source on first use (spec.md §4.4: "a new dispatcher that re-emits every
// event from every input").
type MergedDispatcher struct {
	*Dispatcher
	sources []*Dispatcher
	bridged map[string]UnsubscribeFunc
}

// Merge constructs a new dispatcher that re-emits every event from every
// input dispatcher (spec.md §4.4). Error events from any input are
// forwarded like any other event — no special-casing is needed since
// ErrorEventName is just another event name.
func Merge(sources ...*Dispatcher) (*MergedDispatcher, UnsubscribeFunc) {
	md := &MergedDispatcher{
		Dispatcher: New(mergedOptions(sources)),
		sources:    sources,
		bridged:    make(map[string]UnsubscribeFunc),
	}

	for _, src := range sources {
		for _, event := range src.EventNames() {
			md.bridgeIfNeeded(event)
		}
	}

	disposer := func() bool {
		for _, unsub := range md.bridged {
			unsub()
		}
		md.bridged = map[string]UnsubscribeFunc{}
		return true
	}
	return md, disposer
}

// mergedOptions picks the first source's options as the merged dispatcher's
// configuration, or DefaultOptions when no sources are given.
func mergedOptions(sources []*Dispatcher) Options {
	if len(sources) == 0 {
		return DefaultOptions()
	}
	return sources[0].opts
}

// bridgeIfNeeded installs a forwarding subscription for event on every
// source dispatcher, unless one is already installed.
func (md *MergedDispatcher) bridgeIfNeeded(event string) {
	if _, already := md.bridged[event]; already {
		return
	}
	unsubs := make([]UnsubscribeFunc, 0, len(md.sources))
	for _, src := range md.sources {
		unsubs = append(unsubs, src.Pipe(event, md.Dispatcher, event))
	}
	md.bridged[event] = combineUnsubs(unsubs)
}

// On shadows Dispatcher.On to lazily bridge event from every source before
// registering the subscription locally.
func (md *MergedDispatcher) On(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	md.bridgeIfNeeded(event)
	return md.Dispatcher.On(event, cb, opts...)
}

// Once shadows Dispatcher.Once to lazily bridge event from every source
// before registering the subscription locally.
func (md *MergedDispatcher) Once(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	md.bridgeIfNeeded(event)
	return md.Dispatcher.Once(event, cb, opts...)
}

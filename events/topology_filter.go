package events

import "context"

// FilterOptions configures Filter.
type FilterOptions struct {
	// PassthroughErrors adds ErrorEventName to the allowed set, letting
	// forwarded handler errors reach the filtered dispatcher even though
	// "error" was not explicitly listed.
	PassthroughErrors bool
}

// FilteredDispatcher is the destination returned by Filter: a *Dispatcher
// that additionally refuses emits for any event outside its allowed set.
// Embedding *Dispatcher reuses every other method unchanged, in the spirit
// of spec.md §9's "model each operator as an independent dispatcher" note —
// there is no shared base class to reopen, only composition.
type FilteredDispatcher struct {
	*Dispatcher
	allowed map[string]struct{}
}

func (f *FilteredDispatcher) permitted(event string) bool {
	_, ok := f.allowed[event]
	return ok
}

// EmitAsync refuses (returns false, ErrRefused) for any event outside the
// allowed set; otherwise it behaves exactly like Dispatcher.EmitAsync.
func (f *FilteredDispatcher) EmitAsync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	if !f.permitted(event) {
		return false, ErrRefused
	}
	return f.Dispatcher.EmitAsync(ctx, event, payload, opts...)
}

// EmitSync refuses (returns false, ErrRefused) for any event outside the
// allowed set; otherwise it behaves exactly like Dispatcher.EmitSync.
func (f *FilteredDispatcher) EmitSync(ctx context.Context, event string, payload any, opts ...EmitOptions) (bool, error) {
	if !f.permitted(event) {
		return false, ErrRefused
	}
	return f.Dispatcher.EmitSync(ctx, event, payload, opts...)
}

// Filter constructs a new dispatcher that forwards only the named events
// from source, with an optional "error" passthrough. The returned
// UnsubscribeFunc tears down the forwarding subscriptions on source (it
// does not dispose the returned dispatcher).
func Filter(source *Dispatcher, allowedEvents []string, opts ...FilterOptions) (*FilteredDispatcher, UnsubscribeFunc) {
	var o FilterOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	allowed := make(map[string]struct{}, len(allowedEvents)+1)
	for _, e := range allowedEvents {
		allowed[e] = struct{}{}
	}
	if o.PassthroughErrors {
		allowed[ErrorEventName] = struct{}{}
	}

	dest := &FilteredDispatcher{Dispatcher: New(source.opts), allowed: allowed}

	unsubs := make([]UnsubscribeFunc, 0, len(allowed))
	for event := range allowed {
		unsubs = append(unsubs, source.Pipe(event, dest.Dispatcher, event))
	}

	return dest, combineUnsubs(unsubs)
}

// Exclude constructs a new dispatcher that forwards every event from source
// except the named ones. Because a generic Dispatcher has no fixed event
// catalog, forwarding is installed lazily: subscribing to a new event name
// on the returned dispatcher transparently bridges that event from source
// on first use (spec.md §4.4: "Subscribing to a new event name on the
// destination triggers an on-demand forward bridge").
type ExcludeDispatcher struct {
	*Dispatcher
	source   *Dispatcher
	excluded map[string]struct{}

	bridged map[string]UnsubscribeFunc
}

// Exclude returns a dispatcher forwarding every source event not in
// excludedEvents, plus a disposer that tears down every bridge installed so
// far. The returned *ExcludeDispatcher's On/Once methods shadow
// Dispatcher's to install the on-demand bridge before delegating.
func Exclude(source *Dispatcher, excludedEvents []string) (*ExcludeDispatcher, UnsubscribeFunc) {
	excluded := make(map[string]struct{}, len(excludedEvents))
	for _, e := range excludedEvents {
		excluded[e] = struct{}{}
	}

	ed := &ExcludeDispatcher{
		Dispatcher: New(source.opts),
		source:     source,
		excluded:   excluded,
		bridged:    make(map[string]UnsubscribeFunc),
	}

	disposer := func() bool {
		for _, unsub := range ed.bridged {
			unsub()
		}
		ed.bridged = map[string]UnsubscribeFunc{}
		return true
	}
	return ed, disposer
}

func (ed *ExcludeDispatcher) bridgeIfNeeded(event string) {
	if _, isExcluded := ed.excluded[event]; isExcluded {
		return
	}
	if _, already := ed.bridged[event]; already {
		return
	}
	ed.bridged[event] = ed.source.Pipe(event, ed.Dispatcher, event)
}

// On shadows Dispatcher.On to lazily bridge event from the source before
// registering the subscription locally.
func (ed *ExcludeDispatcher) On(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	ed.bridgeIfNeeded(event)
	return ed.Dispatcher.On(event, cb, opts...)
}

// Once shadows Dispatcher.Once to lazily bridge event from the source
// before registering the subscription locally.
func (ed *ExcludeDispatcher) Once(event string, cb Callback, opts ...SubscribeOptions) UnsubscribeFunc {
	ed.bridgeIfNeeded(event)
	return ed.Dispatcher.Once(event, cb, opts...)
}

func combineUnsubs(unsubs []UnsubscribeFunc) UnsubscribeFunc {
	return func() bool {
		any := false
		for _, u := range unsubs {
			if u() {
				any = true
			}
		}
		return any
	}
}

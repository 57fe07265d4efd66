package events

import "time"

// Unbounded is the sentinel ConcurrencyLimit value meaning "no limit" — the
// Scheduler runs every submitted task on its own goroutine immediately.
const Unbounded = 0

// Options configures a Dispatcher. The zero value is not directly usable;
// call DefaultOptions() and override fields, mirroring the teacher's
// DefaultConfig() constructors (modules/eventbus/config.go,
// modules/cache/config.go).
type Options struct {
	// CaptureRejections controls the error policy described in spec.md
	// §4.2: when true, handler failures are wrapped and re-emitted through
	// ErrorEventName instead of propagating to the emit caller.
	CaptureRejections bool

	// MaxListeners is the subscription count threshold at or above which
	// On/Once logs a diagnostic warning. It is not enforced as a hard cap.
	MaxListeners int

	// WeakReferences is accepted and loaded from config files, but no
	// dispatcher code consults it: subscriptions always hold their callback
	// strongly, whatever its value.
	WeakReferences bool

	// ImmediateDispatch is reserved: the synchronous emit path is always
	// synchronous regardless of this value (spec.md Open Questions).
	ImmediateDispatch bool

	// ConcurrencyLimit bounds how many async callback tasks the Scheduler
	// runs at once. Unbounded (0) means no limit.
	ConcurrencyLimit int

	// BufferSize is the per-event priority buffer capacity consulted while
	// the dispatcher is paused.
	BufferSize int

	// GCInterval is the GC ticker period. Zero disables the ticker.
	GCInterval time.Duration
}

// DefaultOptions returns the option defaults from spec.md §6.
func DefaultOptions() Options {
	return Options{
		CaptureRejections: false,
		MaxListeners:      10,
		WeakReferences:    false,
		ImmediateDispatch: true,
		ConcurrencyLimit:  Unbounded,
		BufferSize:        1000,
		GCInterval:        60 * time.Second,
	}
}

// withDefaults fills zero-valued fields that have a non-zero default. Fields
// whose zero value is meaningful on its own (ConcurrencyLimit,
// CaptureRejections, WeakReferences, ImmediateDispatch, and GCInterval, where
// zero disables the ticker) are left as given; only MaxListeners and
// BufferSize get backfilled.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxListeners == 0 {
		o.MaxListeners = d.MaxListeners
	}
	if o.BufferSize == 0 {
		o.BufferSize = d.BufferSize
	}
	return o
}

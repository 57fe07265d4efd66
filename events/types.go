package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ErrorEventName is the reserved event name HandlerError failures are
// re-emitted through when CaptureRejections is enabled.
const ErrorEventName = "error"

// Priority is the dispatch-order weight of a subscription. Lower values
// dispatch first. The zero value is not a valid priority; option structs
// carrying it are treated as PriorityNormal.
type Priority int

const (
	// PriorityHigh subscriptions are invoked before PriorityNormal and
	// PriorityLow ones for the same emit.
	PriorityHigh Priority = iota + 1
	// PriorityNormal is the default priority for on/once.
	PriorityNormal
	// PriorityLow subscriptions are invoked last.
	PriorityLow
)

func (p Priority) valid() bool {
	return p == PriorityHigh || p == PriorityNormal || p == PriorityLow
}

// Callback is the user-supplied handler invoked when a matching event is
// dispatched. Payload carries whatever value was passed to an emit call.
// The context is the one passed to that emit call, carrying the emit's
// priority; disposing the dispatcher does not cancel it.
type Callback func(ctx context.Context, payload any) error

// SubscriptionID is an opaque, globally-unique, never-reused identifier for
// a subscription. It is newtyped over uuid.UUID rather than a raw string so
// that it cannot be confused with an event name at the type level.
type SubscriptionID uuid.UUID

// String renders the identifier in the canonical UUID text form.
func (id SubscriptionID) String() string { return uuid.UUID(id).String() }

func newSubscriptionID() SubscriptionID { return SubscriptionID(uuid.New()) }

// Subscription describes one registration of a callback against an event
// name. Subscription values returned from observer methods (GetSubscriptions)
// are snapshots; mutating them has no effect on the dispatcher.
type Subscription struct {
	ID             SubscriptionID
	Event          string
	Once           bool
	Priority       Priority
	CreatedAt      time.Time
	LastExecuted   *time.Time
	ExecutionCount uint64

	callback Callback
	seq      uint64 // registration order, used as the priority tiebreaker
}

// SubscribeOptions configures a single on/once/batch_subscribe call.
type SubscribeOptions struct {
	// Priority controls dispatch order relative to other subscriptions on
	// the same event. Zero value is PriorityNormal.
	Priority Priority
}

// EmitOptions configures a single emit_async/emit_sync call.
type EmitOptions struct {
	// Priority is the priority this emit is considered to carry for the
	// purpose of the priority buffer ordering key and proxy
	// preserve_priority propagation. Zero value is PriorityNormal.
	Priority Priority
}

// UnsubscribeFunc is the opaque "unsubscribe token" returned by On/Once. It
// is idempotent: the first call removes the subscription and returns true;
// every subsequent call is a no-op returning false. Modeling the token as a
// closure (rather than a symbol or bare comparable value) keeps removal
// race-free without exposing dispatcher internals.
type UnsubscribeFunc func() bool

// QueuedEvent is one entry buffered in a PriorityBuffer while the owning
// dispatcher is paused.
type QueuedEvent struct {
	Seq       uint64
	Event     string
	Payload   any
	EnqueuedAt time.Time
	Priority  Priority
}

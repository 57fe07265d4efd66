package events

import (
	"context"
	"log/slog"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Lifecycle event type constants, following the teacher's reverse-DNS
// convention for CloudEvents type strings (modules/eventbus/events.go uses
// "com.modular.eventbus.*"; this repo uses "io.axrone.events.*").
const (
	LifecycleEventPaused     = "io.axrone.events.dispatcher.paused"
	LifecycleEventResumed    = "io.axrone.events.dispatcher.resumed"
	LifecycleEventBufferFull = "io.axrone.events.buffer.full"
	LifecycleEventGCSwept    = "io.axrone.events.gc.swept"
	LifecycleEventDisposed   = "io.axrone.events.dispatcher.disposed"
)

// LifecycleEmitter receives CloudEvents describing dispatcher state
// transitions. Its shape mirrors the teacher's scheduler.EventEmitter /
// eventbus module's EmitEvent callback exactly: a single method taking a
// context and a cloudevents.Event. A nil LifecycleEmitter is valid and
// simply means nothing is notified.
type LifecycleEmitter interface {
	EmitLifecycle(ctx context.Context, event cloudevents.Event) error
}

// LifecycleEmitterFunc adapts a plain function to LifecycleEmitter.
type LifecycleEmitterFunc func(ctx context.Context, event cloudevents.Event) error

// EmitLifecycle implements LifecycleEmitter.
func (f LifecycleEmitterFunc) EmitLifecycle(ctx context.Context, event cloudevents.Event) error {
	return f(ctx, event)
}

// logHandlerError is the terminal fallback for a HandlerError that could not
// be forwarded through the "error" event (no listener registered, or the
// forward attempt failed), per spec.md §4.2/§7: "log and swallow".
func logHandlerError(herr *HandlerError) {
	slog.Error("events: unhandled handler error", "event", herr.Event, "cause", herr.Cause)
}

func newLifecycleEvent(eventType, source string, data map[string]any) cloudevents.Event {
	ev := cloudevents.NewEvent()
	ev.SetID(uuid.NewString())
	ev.SetType(eventType)
	ev.SetSource(source)
	ev.SetTime(time.Now())
	if err := ev.SetData(cloudevents.ApplicationJSON, data); err != nil {
		slog.Debug("events: failed to encode lifecycle event data", "type", eventType, "error", err)
	}
	return ev
}

// emitLifecycle fires-and-forgets a lifecycle notification; failures are
// logged, never propagated, matching how the teacher's modules swallow
// EmitEvent errors ("Log but don't fail the operation").
func (d *Dispatcher) emitLifecycle(eventType string, data map[string]any) {
	if d.emitter == nil {
		return
	}
	ev := newLifecycleEvent(eventType, "events.Dispatcher", data)
	go func() {
		if err := d.emitter.EmitLifecycle(context.Background(), ev); err != nil {
			slog.Debug("events: lifecycle emission failed", "type", eventType, "error", err)
		}
	}()
}

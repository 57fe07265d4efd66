package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// gcTicker periodically sweeps stale metrics and empty priority buffers.
// Built on robfig/cron/v3 — the same scheduling library the teacher's
// modules/scheduler uses for its own recurring jobs — translating the
// configured interval into an "@every <duration>" cron spec instead of a
// hand-rolled time.Ticker loop.
type gcTicker struct {
	mu      sync.Mutex
	cronSvc *cron.Cron
	entryID cron.EntryID
	hasJob  bool
	sweep   func()
}

func newGCTicker(sweep func()) *gcTicker {
	return &gcTicker{cronSvc: cron.New(), sweep: sweep}
}

// Reconfigure installs (or removes) the sweep job for the given interval.
// interval <= 0 disables the ticker, matching spec.md §4.6 ("When
// configured to 0, the ticker is disabled").
func (t *gcTicker) Reconfigure(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hasJob {
		t.cronSvc.Remove(t.entryID)
		t.hasJob = false
	}
	if interval <= 0 {
		return
	}

	spec := fmt.Sprintf("@every %s", interval.String())
	id, err := t.cronSvc.AddFunc(spec, t.sweep)
	if err != nil {
		// interval comes from a time.Duration, which cron's "@every"
		// parser always accepts; a failure here would be a programming
		// error, not a runtime condition.
		panic(fmt.Sprintf("events: invalid gc interval %s: %v", interval, err))
	}
	t.entryID = id
	t.hasJob = true
}

func (t *gcTicker) Start() { t.cronSvc.Start() }

// Stop terminates the underlying cron scheduler, waiting for any in-flight
// sweep to finish.
func (t *gcTicker) Stop() {
	ctx := t.cronSvc.Stop()
	<-ctx.Done()
}

// RunNow triggers an out-of-band sweep immediately, independent of the cron
// schedule. Used by Dispatcher.Dispose to perform a final sweep before
// tearing down.
func (t *gcTicker) RunNow() { t.sweep() }

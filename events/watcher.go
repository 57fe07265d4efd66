package events

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads a Dispatcher's live-reloadable options whenever its
// backing file changes on disk, in the spirit of the teacher's config
// feeders being a pluggable source for Options (feeders/base_config.go) —
// here the source is watched rather than read once. Only the fields that are
// safe to change live (MaxListeners, CaptureRejections, GCInterval) are
// applied; BufferSize and ConcurrencyLimit require reconstructing the
// Scheduler and PriorityBuffer, so they are intentionally left untouched by a
// running dispatcher (see DESIGN.md, "Config loading & live reload").
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchConfig starts watching path for changes, applying safe-to-change
// fields from each successfully reloaded file onto d. Errors reading or
// parsing a changed file are logged and otherwise ignored — a transient
// partial write should not crash a running dispatcher.
func WatchConfig(d *Dispatcher, path string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{path: path, watcher: w, done: make(chan struct{})}
	go cw.loop(d)
	return cw, nil
}

func (cw *ConfigWatcher) loop(d *Dispatcher) {
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			opts, err := LoadOptions(cw.path)
			if err != nil {
				slog.Warn("events: config reload failed", "path", cw.path, "error", err)
				continue
			}
			d.applyLiveOptions(opts)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("events: config watcher error", "path", cw.path, "error", err)
		case <-cw.done:
			return
		}
	}
}

// Close stops watching and releases the underlying inotify/kqueue handle.
func (cw *ConfigWatcher) Close() error {
	close(cw.done)
	return cw.watcher.Close()
}

// applyLiveOptions updates the subset of Options that can change safely on
// a running Dispatcher without reconstructing its Scheduler or
// PriorityBuffer.
func (d *Dispatcher) applyLiveOptions(o Options) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.MaxListeners = o.MaxListeners
	d.opts.CaptureRejections = o.CaptureRejections
	if o.GCInterval != d.opts.GCInterval {
		d.opts.GCInterval = o.GCInterval
		d.gc.Reconfigure(o.GCInterval)
	}
}

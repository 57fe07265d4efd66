// Package events implements an in-process typed publish/subscribe dispatcher
// with priority-ordered delivery, a concurrency-limited async scheduler, a
// bounded pause/resume buffer, rolling-window metrics, a GC sweeper, and a
// set of composable topology operators (filter, exclude, namespace, proxy,
// merge, scoped groups).
//
// The dispatcher owns all of its state exclusively; callers interact with it
// only through the exported API on *Dispatcher. Concurrency comes from the
// Scheduler running callbacks up to a configured limit, not from external
// mutation of dispatcher internals.
package events

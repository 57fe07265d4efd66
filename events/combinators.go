package events

import (
	"context"
	"sync"
	"time"
)

// This file implements the pure callback combinators of spec.md §4.7. Each
// wraps a Callback and returns a new Callback; none of them touch Dispatcher
// state directly, matching "Pure wrappers over a callback" in the spec.

// Debounce returns a callback that only invokes cb after wait has elapsed
// with no further calls (trailing debounce).
func Debounce(cb Callback, wait time.Duration) Callback {
	var mu sync.Mutex
	var timer *time.Timer

	return func(ctx context.Context, payload any) error {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() {
			_ = cb(ctx, payload)
		})
		mu.Unlock()
		return nil
	}
}

// Throttle returns a callback that fires immediately on the first call,
// then drops further calls until window has elapsed (leading edge).
func Throttle(cb Callback, window time.Duration) Callback {
	var mu sync.Mutex
	var last time.Time

	return func(ctx context.Context, payload any) error {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < window {
			mu.Unlock()
			return nil
		}
		last = now
		mu.Unlock()
		return cb(ctx, payload)
	}
}

// RateLimit returns a callback that fires only while fewer than maxCalls
// have fired within the trailing window; calls beyond that are dropped as a
// resolved no-op, matching spec.md §4.7.
func RateLimit(cb Callback, maxCalls int, window time.Duration) Callback {
	var mu sync.Mutex
	var timestamps []time.Time

	return func(ctx context.Context, payload any) error {
		mu.Lock()
		now := time.Now()
		cutoff := now.Add(-window)
		kept := timestamps[:0]
		for _, t := range timestamps {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		timestamps = kept
		if len(timestamps) >= maxCalls {
			mu.Unlock()
			return nil
		}
		timestamps = append(timestamps, now)
		mu.Unlock()
		return cb(ctx, payload)
	}
}

// Once returns a callback that invokes cb on its first call and thereafter
// returns the memoized first result without invoking cb again.
func Once(cb Callback) Callback {
	var mu sync.Mutex
	var fired bool
	var result error

	return func(ctx context.Context, payload any) error {
		mu.Lock()
		defer mu.Unlock()
		if fired {
			return result
		}
		fired = true
		result = cb(ctx, payload)
		return result
	}
}

// Compose returns a callback that awaits each of cbs in sequence, stopping
// and returning the first error encountered.
func Compose(cbs ...Callback) Callback {
	return func(ctx context.Context, payload any) error {
		for _, cb := range cbs {
			if err := cb(ctx, payload); err != nil {
				return err
			}
		}
		return nil
	}
}

// MapPayload returns a callback that transforms the payload with f before
// invoking cb.
func MapPayload(f func(any) any, cb Callback) Callback {
	return func(ctx context.Context, payload any) error {
		return cb(ctx, f(payload))
	}
}

// FilterPayload returns a callback that only invokes cb when predicate p
// holds for the payload.
func FilterPayload(p func(any) bool, cb Callback) Callback {
	return func(ctx context.Context, payload any) error {
		if !p(payload) {
			return nil
		}
		return cb(ctx, payload)
	}
}

// CatchErrors returns a callback that invokes cb and, on failure, calls
// handler with the error and payload instead of propagating it.
func CatchErrors(cb Callback, handler func(err error, payload any)) Callback {
	return func(ctx context.Context, payload any) error {
		if err := cb(ctx, payload); err != nil {
			handler(err, payload)
			return nil
		}
		return nil
	}
}

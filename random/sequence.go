package random

// Sequence is a lazy stream of T values drawn from a generator function.
// Take/Skip/Map/Filter compose without eagerly materializing output
// (spec.md §4.11).
type Sequence[T any] struct {
	next func() T
}

// NewSequence wraps gen as a lazy stream.
func NewSequence[T any](gen func() T) Sequence[T] {
	return Sequence[T]{next: gen}
}

// Take materializes the next k values.
func (s Sequence[T]) Take(k int) []T {
	out := make([]T, k)
	for i := 0; i < k; i++ {
		out[i] = s.next()
	}
	return out
}

// TryTake is Take for streams built with Filter, where exhausting the
// attempt budget panics with ErrNoMatch; TryTake recovers that into a
// normal error return.
func (s Sequence[T]) TryTake(k int) (out []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return s.Take(k), nil
}

// Skip discards the next k values and returns the same stream.
func (s Sequence[T]) Skip(k int) Sequence[T] {
	for i := 0; i < k; i++ {
		s.next()
	}
	return s
}

// Map returns a stream of f applied to each drawn value.
func Map[T, U any](s Sequence[T], f func(T) U) Sequence[U] {
	return NewSequence(func() U {
		return f(s.next())
	})
}

// Filter returns a stream that only yields values satisfying pred,
// retrying up to sequenceFilterMaxAttempts times per value before
// panicking with ErrNoMatch (spec.md §4.11: "filter fails with NoMatch
// after max attempts"). Callers pulling from a Filter stream should
// recover if ErrNoMatch is a real possibility for their predicate.
func Filter[T any](s Sequence[T], pred func(T) bool) Sequence[T] {
	return NewSequence(func() T {
		for attempt := 0; attempt < sequenceFilterMaxAttempts; attempt++ {
			v := s.next()
			if pred(v) {
				return v
			}
		}
		panic(ErrNoMatch)
	})
}

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceOnlyFiresAfterQuietPeriod(t *testing.T) {
	var calls int32
	cb := Debounce(func(ctx context.Context, payload any) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, 30*time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = cb(context.Background(), nil)
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestThrottleFiresLeadingEdgeOnly(t *testing.T) {
	var calls int32
	cb := Throttle(func(ctx context.Context, payload any) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, 50*time.Millisecond)

	require.NoError(t, cb(context.Background(), nil))
	require.NoError(t, cb(context.Background(), nil))
	require.NoError(t, cb(context.Background(), nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	time.Sleep(60 * time.Millisecond)
	require.NoError(t, cb(context.Background(), nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRateLimitDropsCallsBeyondMax(t *testing.T) {
	var calls int32
	cb := RateLimit(func(ctx context.Context, payload any) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, 2, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, cb(context.Background(), nil))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOnceMemoizesFirstResult(t *testing.T) {
	var calls int32
	boom := errors.New("boom")
	cb := Once(func(ctx context.Context, payload any) error {
		atomic.AddInt32(&calls, 1)
		return boom
	})

	err1 := cb(context.Background(), nil)
	err2 := cb(context.Background(), nil)
	assert.Same(t, err1, err2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestComposeStopsAtFirstError(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	step := func(name string, err error) Callback {
		return func(ctx context.Context, payload any) error {
			order = append(order, name)
			return err
		}
	}

	cb := Compose(step("a", nil), step("b", boom), step("c", nil))
	err := cb(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestMapPayloadTransformsBeforeInvoking(t *testing.T) {
	var got any
	cb := MapPayload(func(p any) any { return p.(int) * 2 }, func(ctx context.Context, payload any) error {
		got = payload
		return nil
	})
	require.NoError(t, cb(context.Background(), 21))
	assert.Equal(t, 42, got)
}

func TestFilterPayloadSkipsWhenPredicateFails(t *testing.T) {
	var calls int32
	cb := FilterPayload(func(p any) bool { return p.(int) > 0 }, func(ctx context.Context, payload any) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, cb(context.Background(), -1))
	require.NoError(t, cb(context.Background(), 1))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCatchErrorsRoutesToHandler(t *testing.T) {
	boom := errors.New("boom")
	var caught error
	cb := CatchErrors(func(ctx context.Context, payload any) error {
		return boom
	}, func(err error, payload any) {
		caught = err
	})

	err := cb(context.Background(), nil)
	assert.NoError(t, err)
	assert.ErrorIs(t, caught, boom)
}

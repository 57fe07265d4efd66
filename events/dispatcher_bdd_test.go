package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cucumber/godog"
)

// dispatcherBDDContext holds the state threaded through one scenario of
// features/dispatch.feature, following the teacher's per-scenario context
// struct convention (see modules/eventbus/eventbus_module_bdd_test.go).
type dispatcherBDDContext struct {
	mu sync.Mutex

	d    *Dispatcher
	dest *Dispatcher

	bufferSize int

	calls    map[string][]any
	order    []string
	lastErr error
	lastOK  bool

	namespaced  *NamespacedDispatcher
	proxyUnsub  UnsubscribeFunc
	proxyPrio   Priority
	proxyHits   int
	proxyCalled bool

	subscribedForDelivery map[string]bool
	queueFullErrs         []error
}

func (c *dispatcherBDDContext) reset() {
	c.mu = sync.Mutex{}
	c.d = New(DefaultOptions())
	c.dest = nil
	c.bufferSize = 0
	c.calls = map[string][]any{}
	c.order = nil
	c.lastErr = nil
	c.lastOK = false
	c.namespaced = nil
	c.proxyUnsub = nil
	c.proxyHits = 0
	c.proxyCalled = false
	c.subscribedForDelivery = map[string]bool{}
	c.queueFullErrs = nil
}

func (c *dispatcherBDDContext) iHaveADispatcherWithDefaultOptions() error {
	c.reset()
	return nil
}

func (c *dispatcherBDDContext) theBufferSizeIs(n int) error {
	c.bufferSize = n
	c.d = New(Options{BufferSize: n})
	return nil
}

func (c *dispatcherBDDContext) record(name string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name] = append(c.calls[name], payload)
	c.order = append(c.order, name)
}

func (c *dispatcherBDDContext) iSubscribeToEventWithARecordingHandler(event string) error {
	c.subscribedForDelivery[event] = true
	c.d.On(event, func(ctx context.Context, payload any) error {
		c.record(event, payload)
		return nil
	})
	return nil
}

func (c *dispatcherBDDContext) iSubscribeOnceToEventWithARecordingHandler(event string) error {
	c.subscribedForDelivery[event] = true
	c.d.Once(event, func(ctx context.Context, payload any) error {
		c.record(event, payload)
		return nil
	})
	return nil
}

func (c *dispatcherBDDContext) iSubscribeToEventWithPriority(event, priority string) error {
	c.subscribedForDelivery[event] = true
	c.d.On(event, func(ctx context.Context, payload any) error {
		c.record(priority, payload)
		return nil
	}, SubscribeOptions{Priority: parsePriority(priority)})
	return nil
}

func parsePriority(s string) Priority {
	switch s {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

func (c *dispatcherBDDContext) iEmitWithPayload(event string, payload int) error {
	// Auto-subscribe a recording handler the first time an event is emitted
	// in a scenario, so buffered deliveries on resume are observable
	// without a separate subscribe step (the buffer scenario emits while
	// paused, before any explicit On call).
	if !c.subscribedForDelivery[event] {
		c.subscribedForDelivery[event] = true
		c.d.On(event, func(ctx context.Context, p any) error {
			c.record(event, p)
			return nil
		})
	}
	ok, err := c.d.EmitAsync(context.Background(), event, payload)
	c.lastOK = ok
	c.lastErr = err
	if IsQueueFull(err) {
		c.queueFullErrs = append(c.queueFullErrs, err)
	}
	return nil
}

func (c *dispatcherBDDContext) theHandlerForShouldHaveBeenCalledExactlyOnceWithPayload(event string, payload int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	got := c.calls[event]
	if len(got) != 1 {
		return fmt.Errorf("expected exactly one call to %q, got %d", event, len(got))
	}
	if got[0] != payload {
		return fmt.Errorf("expected payload %v, got %v", payload, got[0])
	}
	return nil
}

func (c *dispatcherBDDContext) theEmitOfShouldHaveReturnedFalse(event string) error {
	if c.lastOK {
		return fmt.Errorf("expected emit of %q to return false, got true", event)
	}
	return nil
}

func (c *dispatcherBDDContext) theInvocationOrderForShouldBe(event, wantOrder string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	got := strings.Join(c.order, ",")
	if got != wantOrder {
		return fmt.Errorf("expected invocation order %q, got %q", wantOrder, got)
	}
	return nil
}

func (c *dispatcherBDDContext) iPauseTheDispatcher() error {
	c.d.Pause()
	return nil
}

func (c *dispatcherBDDContext) iResumeTheDispatcher() error {
	c.d.Resume()
	return nil
}

func (c *dispatcherBDDContext) theThirdEmitOfShouldFailWithQueueFull(event string) error {
	if len(c.queueFullErrs) == 0 {
		return fmt.Errorf("expected a QueueFull error for %q, got none", event)
	}
	return nil
}

func (c *dispatcherBDDContext) shouldHaveBeenDeliveredInTheOrder(event, order string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	want := strings.Split(order, ",")
	got := c.calls[event]
	if len(got) != len(want) {
		return fmt.Errorf("expected %d deliveries for %q, got %d", len(want), event, len(got))
	}
	for i, w := range want {
		if fmt.Sprintf("%v", got[i]) != w {
			return fmt.Errorf("expected delivery %d to be %q, got %v", i, w, got[i])
		}
	}
	return nil
}

func (c *dispatcherBDDContext) theListenerCountForShouldBe(event string, n int) error {
	if c.d.ListenerCount(event) != n {
		return fmt.Errorf("expected listener count %d, got %d", n, c.d.ListenerCount(event))
	}
	return nil
}

func (c *dispatcherBDDContext) aNamespacedFacadeOverTheDispatcherWithPrefix(prefix string) error {
	c.namespaced = Namespace(prefix, c.d)
	return nil
}

func (c *dispatcherBDDContext) iSubscribeToEventOnTheNamespacedFacade(event string) error {
	_, err := c.namespaced.On(event, func(ctx context.Context, payload any) error { return nil })
	c.lastErr = err
	return nil
}

func (c *dispatcherBDDContext) itShouldFailWithInvalidName() error {
	if c.lastErr != ErrInvalidName {
		return fmt.Errorf("expected ErrInvalidName, got %v", c.lastErr)
	}
	return nil
}

func (c *dispatcherBDDContext) aDestinationDispatcher() error {
	c.dest = New(DefaultOptions())
	return nil
}

func (c *dispatcherBDDContext) aBidirectionalProxyPreservingPriorityForEventMappedTo(source, target string) error {
	c.proxyUnsub = Proxy(c.d, c.dest, []ProxyRoute{{Source: source, Target: target}},
		ProxyOptions{PreservePriority: true, Bidirectional: true})
	return nil
}

func (c *dispatcherBDDContext) iSubscribeToEventWithAPriorityRecordingHandlerOnTheDestination(event string) error {
	c.dest.On(event, func(ctx context.Context, payload any) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.proxyHits++
		c.proxyCalled = true
		if p, ok := currentEmitPriority(ctx); ok {
			c.proxyPrio = p
		}
		return nil
	})
	return nil
}

func (c *dispatcherBDDContext) iEmitOnTheSourceWithPriority(event, priority string) error {
	_, err := c.d.EmitAsync(context.Background(), event, nil, EmitOptions{Priority: parsePriority(priority)})
	c.lastErr = err
	return nil
}

func (c *dispatcherBDDContext) theDestinationShouldHaveReceivedExactlyOnceWithPriority(event, priority string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.proxyHits != 1 {
		return fmt.Errorf("expected exactly one delivery of %q on destination, got %d", event, c.proxyHits)
	}
	if c.proxyPrio != parsePriority(priority) {
		return fmt.Errorf("expected priority %q, got %v", priority, c.proxyPrio)
	}
	return nil
}

func TestDispatchBDD(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			c := &dispatcherBDDContext{}

			sc.Given(`^I have a dispatcher with default options$`, c.iHaveADispatcherWithDefaultOptions)
			sc.Given(`^the buffer size is (\d+)$`, c.theBufferSizeIs)

			sc.When(`^I subscribe to event "([^"]*)" with a recording handler$`, c.iSubscribeToEventWithARecordingHandler)
			sc.When(`^I subscribe once to event "([^"]*)" with a recording handler$`, c.iSubscribeOnceToEventWithARecordingHandler)
			sc.When(`^I subscribe to event "([^"]*)" with priority "([^"]*)"$`, c.iSubscribeToEventWithPriority)
			sc.When(`^I emit "([^"]*)" with payload (\d+)$`, c.iEmitWithPayload)
			sc.When(`^I pause the dispatcher$`, c.iPauseTheDispatcher)
			sc.When(`^I resume the dispatcher$`, c.iResumeTheDispatcher)

			sc.Then(`^the handler for "([^"]*)" should have been called exactly once with payload (\d+)$`, c.theHandlerForShouldHaveBeenCalledExactlyOnceWithPayload)
			sc.Then(`^the emit of "([^"]*)" should have returned false$`, c.theEmitOfShouldHaveReturnedFalse)
			sc.Then(`^the invocation order for "([^"]*)" should be "([^"]*)"$`, c.theInvocationOrderForShouldBe)

			sc.Then(`^the third emit of "q" should fail with queue full$`, func() error { return c.theThirdEmitOfShouldFailWithQueueFull("q") })
			sc.Then(`^"q" should have been delivered in the order (.+)$`, func(order string) error { return c.shouldHaveBeenDeliveredInTheOrder("q", order) })

			sc.Then(`^the listener count for "([^"]*)" should be (\d+)$`, c.theListenerCountForShouldBe)

			sc.Given(`^a namespaced facade over the dispatcher with prefix "([^"]*)"$`, c.aNamespacedFacadeOverTheDispatcherWithPrefix)
			sc.When(`^I subscribe to event "([^"]*)" on the namespaced facade$`, c.iSubscribeToEventOnTheNamespacedFacade)
			sc.Then(`^it should fail with invalid name$`, c.itShouldFailWithInvalidName)

			sc.Given(`^a destination dispatcher$`, c.aDestinationDispatcher)
			sc.Given(`^a bidirectional proxy from the source to the destination preserving priority for event "([^"]*)" mapped to "([^"]*)"$`, c.aBidirectionalProxyPreservingPriorityForEventMappedTo)
			sc.When(`^I subscribe to event "([^"]*)" with a priority-recording handler on the destination$`, c.iSubscribeToEventWithAPriorityRecordingHandlerOnTheDestination)
			sc.When(`^I emit "([^"]*)" on the source with priority "([^"]*)"$`, c.iEmitOnTheSourceWithPriority)
			sc.Then(`^the destination should have received "([^"]*)" exactly once with priority "([^"]*)"$`, c.theDestinationShouldHaveReceivedExactlyOnceWithPriority)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

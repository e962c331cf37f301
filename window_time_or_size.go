package reactor

import (
	"sync/atomic"
)

// WindowTimeOrSize splits an upstream sequence into consecutive Windows,
// closing the current window when either the backlog item count is reached or
// the timespan elapses, whichever comes first. Each Window is emitted to the
// downstream subscriber as soon as its first item arrives and is itself a
// Publisher of the items collected while it was open.
//
// Cancellation from downstream is deferred: the upstream subscription and
// timer are released only once every window the operator produced has
// terminated, so no window's consumer sees its content truncated.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type WindowTimeOrSize[T any] struct {
	source Publisher[T]
	config WindowConfig
	clock  Clock
	meta   Metadata
	name   string
}

// NewWindowTimeOrSize creates the windowing operator over source.
// A window closes when config.Backlog items have been collected OR
// config.Timespan has elapsed since it opened, whichever comes first.
// Windows are opened lazily: a flush does not open the next window, the next
// arriving item does.
//
// When to use:
//   - Chopping an event firehose into bounded batches for aggregation
//   - Emitting partial results at a latency bound even under low traffic
//   - Micro-batching where each batch needs to be consumed as a stream
//
// Example:
//
//	// Windows of up to 100 events, at most 1 second apart
//	op := reactor.NewWindowTimeOrSize(source, reactor.WindowConfig{
//		Backlog:  100,
//		Timespan: time.Second,
//	}, reactor.RealClock)
//
//	op.Subscribe(sub) // sub receives one *Window[Event] per window
//
// Parameters:
//   - source: the upstream publisher to subdivide
//   - config: backlog and timespan thresholds (zero disables either one)
//   - clock: Clock interface for time operations
//
// Returns a new WindowTimeOrSize operator with fluent configuration.
func NewWindowTimeOrSize[T any](source Publisher[T], config WindowConfig, clock Clock) *WindowTimeOrSize[T] {
	return &WindowTimeOrSize[T]{
		source: source,
		config: config,
		clock:  clock,
		name:   "window-time-or-size",
	}
}

// WithMetadata sets the ambient metadata propagated to every created Window.
func (o *WindowTimeOrSize[T]) WithMetadata(meta Metadata) *WindowTimeOrSize[T] {
	o.meta = meta
	return o
}

// Subscribe attaches the downstream subscriber and subscribes to the upstream
// source. An invalid config fails the subscriber through the protocol instead
// of panicking.
func (o *WindowTimeOrSize[T]) Subscribe(actual Subscriber[*Window[T]]) {
	if err := o.config.validate(); err != nil {
		actual.OnSubscribe(inertSubscription{})
		actual.OnError(err)
		return
	}

	c := &windowController[T]{
		actual: actual,
		meta:   o.meta,
	}
	// The controller holds the upstream resource on its own behalf until
	// cancellation; windows stack their holds on top of this one.
	c.windows.Store(1)
	c.driver = newBatchDriver[T](c, o.config.Backlog, o.config.Timespan, o.clock)

	actual.OnSubscribe(c)
	o.source.Subscribe(c.driver)
}

// Name returns a descriptive name for the operator, useful for debugging.
func (o *WindowTimeOrSize[T]) Name() string {
	return o.name
}

// windowController owns the current-window reference and decides when the
// upstream resource may be released. Its trigger hooks are serialized by the
// batchDriver, so current is only ever touched from one hook at a time;
// Cancel, however, may race freely against the hooks and coordinates through
// the atomic flag and counter alone.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type windowController[T any] struct {
	actual  Subscriber[*Window[T]]
	meta    Metadata
	driver  *batchDriver[T]
	current *Window[T]

	cancelled atomic.Bool
	windows   atomic.Int32
}

func (c *windowController[T]) onFirst(T) {
	c.windows.Add(1)
	w := newWindow[T](c.meta)
	c.current = w
	c.actual.OnNext(w)
}

func (c *windowController[T]) onNext(item T) {
	// A nil window means a flush or terminal signal already closed it; the
	// item raced against the close and is dropped.
	if c.current != nil {
		c.current.push(item)
	}
}

func (c *windowController[T]) onFlush() {
	if c.current != nil {
		c.current.finish()
		c.current = nil
		c.release()
	}
}

func (c *windowController[T]) onError(err error) {
	if c.current != nil {
		c.current.fail(err)
		c.current = nil
		c.release()
	}
	c.actual.OnError(err)
}

func (c *windowController[T]) onComplete() {
	if c.current != nil {
		c.current.finish()
		c.current = nil
		c.release()
	}
	c.actual.OnComplete()
}

// Request is a no-op: windows are emitted as the upstream produces them.
func (c *windowController[T]) Request(int64) {}

// Cancel records the cancellation request and drops the controller's own hold
// on the upstream resource. Only the caller that flips the flag proceeds, so
// repeated cancellations are no-ops and the hold is dropped exactly once.
func (c *windowController[T]) Cancel() {
	if c.cancelled.CompareAndSwap(false, true) {
		c.release()
	}
}

// release drops one hold on the upstream resource. The thread whose decrement
// reaches zero is the only one that evaluates the teardown condition, so the
// upstream is never disposed from a stale count.
func (c *windowController[T]) release() {
	if c.windows.Add(-1) == 0 && c.cancelled.Load() {
		c.driver.cancelUpstream()
	}
}

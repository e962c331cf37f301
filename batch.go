package reactor

import (
	"sync"
	"time"
)

// batchHooks is the callback surface the batching driver feeds. The driver
// guarantees these are never invoked concurrently for one hooks instance, so
// implementations may mutate per-batch state without their own locking.
type batchHooks[T any] interface {
	// onFirst fires when an item arrives and no batch is open. It runs before
	// the onNext for the same item and must not forward the item itself.
	onFirst(item T)

	// onNext fires for every item, including the one that opened the batch.
	onNext(item T)

	// onFlush fires when the item count reaches the backlog or the timespan
	// elapses, whichever comes first.
	onFlush()

	// onError fires once if the upstream fails. Nothing fires after it.
	onError(err error)

	// onComplete fires once if the upstream completes. Nothing fires after it.
	onComplete()
}

// batchDriver subscribes to the upstream source, detects count and time
// thresholds, and dispatches the trigger hooks. Upstream signals and timer
// expiry all dispatch under a single mutex, which is what makes the
// serialization guarantee of batchHooks hold.
//
// Resource handles (upstream subscription, timer) live behind a separate
// lock so that cancelUpstream can be called from inside a hook without
// deadlocking on the dispatch mutex.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type batchDriver[T any] struct {
	mu         sync.Mutex // serializes hook dispatch
	hooks      batchHooks[T]
	backlog    int
	timespan   time.Duration
	clock      Clock
	count      int
	generation int // bumped on every flush; invalidates stale timer expiries
	terminated bool

	resMu     sync.Mutex // guards upstream and timer handles only
	upstream  Subscription
	timer     Timer
	cancelled bool
}

func newBatchDriver[T any](hooks batchHooks[T], backlog int, timespan time.Duration, clock Clock) *batchDriver[T] {
	return &batchDriver[T]{
		hooks:    hooks,
		backlog:  backlog,
		timespan: timespan,
		clock:    clock,
	}
}

func (d *batchDriver[T]) OnSubscribe(s Subscription) {
	d.resMu.Lock()
	if d.cancelled {
		d.resMu.Unlock()
		s.Cancel()
		return
	}
	d.upstream = s
	d.resMu.Unlock()
	s.Request(Unbounded)
}

func (d *batchDriver[T]) OnNext(item T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.terminated {
		return
	}

	d.count++
	if d.count == 1 {
		d.hooks.onFirst(item)
		if d.timespan > 0 {
			d.armTimer()
		}
	}
	d.hooks.onNext(item)

	if d.backlog > 0 && d.count >= d.backlog {
		d.stopTimer()
		d.count = 0
		d.generation++
		d.hooks.onFlush()
	}
}

func (d *batchDriver[T]) OnError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.terminated {
		return
	}
	d.terminated = true
	d.stopTimer()
	d.hooks.onError(err)
}

func (d *batchDriver[T]) OnComplete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.terminated {
		return
	}
	d.terminated = true
	d.stopTimer()
	d.hooks.onComplete()
}

// timeout runs on the timer's goroutine when the timespan elapses. A timer
// that lost the race against a count-based flush carries a stale generation
// and must not close the window that opened after the flush.
func (d *batchDriver[T]) timeout(generation int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.terminated || d.count == 0 || generation != d.generation {
		return
	}
	d.count = 0
	d.generation++
	d.hooks.onFlush()
}

// cancelUpstream tears down the upstream subscription and any pending timer.
// Idempotent; safe to call from inside a hook or before the upstream
// subscription has arrived.
func (d *batchDriver[T]) cancelUpstream() {
	d.resMu.Lock()
	if d.cancelled {
		d.resMu.Unlock()
		return
	}
	d.cancelled = true
	up := d.upstream
	t := d.timer
	d.timer = nil
	d.resMu.Unlock()

	if t != nil {
		t.Stop()
	}
	if up != nil {
		up.Cancel()
	}
}

// armTimer must be called with d.mu held; it snapshots the current generation.
func (d *batchDriver[T]) armTimer() {
	generation := d.generation
	d.resMu.Lock()
	defer d.resMu.Unlock()
	if d.cancelled {
		return
	}
	d.timer = d.clock.AfterFunc(d.timespan, func() {
		d.timeout(generation)
	})
}

func (d *batchDriver[T]) stopTimer() {
	d.resMu.Lock()
	t := d.timer
	d.timer = nil
	d.resMu.Unlock()
	if t != nil {
		t.Stop()
	}
}

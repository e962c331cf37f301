// Package reactor provides a minimal push-based stream protocol and a
// time-or-size windowing operator built on top of it. The operator subdivides
// an unbounded event sequence into consecutive finite windows, closing the
// current window when either a configured item count is reached or a
// configured time span elapses, whichever comes first.
//
// The core abstractions are Publisher, Subscriber and Subscription, a
// deliberately small push protocol: a Publisher delivers zero or more items to
// a Subscriber followed by exactly one terminal signal, and the Subscriber can
// request cancellation through the Subscription it receives up front.
//
// Basic usage:
//
//	source := make(chan Event)
//
//	op := reactor.NewWindowTimeOrSize(reactor.FromChannel(source), reactor.WindowConfig{
//		Backlog:  100,
//		Timespan: time.Second,
//	}, reactor.RealClock)
//
//	op.Subscribe(windowSubscriber) // receives one *Window[Event] per window
//
// Each emitted Window is itself a Publisher carrying the items collected while
// that window was open. Windows buffer their contents, so a consumer may
// subscribe to a Window after items have already been forwarded into it
// without losing events.
package reactor

import (
	"fmt"
	"math"
	"time"
)

// Unbounded is the demand used by subscribers that do not apply backpressure.
const Unbounded = math.MaxInt64

// Publisher delivers a sequence of items to a Subscriber.
// Implementations in this package support a single Subscriber each.
type Publisher[T any] interface {
	// Subscribe attaches the subscriber and begins delivery. The subscriber
	// receives OnSubscribe exactly once before any other signal.
	Subscribe(sub Subscriber[T])
}

// Subscriber receives a push sequence: OnSubscribe once, then zero or more
// OnNext calls, then at most one of OnError or OnComplete.
type Subscriber[T any] interface {
	// OnSubscribe hands the subscriber its Subscription before any items flow.
	OnSubscribe(s Subscription)

	// OnNext delivers the next item in the sequence.
	OnNext(item T)

	// OnError terminates the sequence with a failure. No signal follows it.
	OnError(err error)

	// OnComplete terminates the sequence normally. No signal follows it.
	OnComplete()
}

// Subscription is the subscriber's handle on an active stream.
type Subscription interface {
	// Request signals demand for up to n more items. Publishers in this
	// package treat demand as unbounded; the method exists to keep the
	// protocol boundary backpressure-shaped.
	Request(n int64)

	// Cancel asks the publisher to stop delivering. Cancellation may be
	// deferred: an operator holding open windows releases its upstream only
	// once the last of them has terminated. Calling Cancel more than once has
	// the same effect as calling it once.
	Cancel()
}

// inertSubscription ignores demand and cancellation. Windows hand it to their
// consumers: a window's lifetime is governed by the operator that created it,
// not by its consumer.
type inertSubscription struct{}

func (inertSubscription) Request(int64) {}
func (inertSubscription) Cancel() {}

// WindowConfig configures the WindowTimeOrSize operator.
type WindowConfig struct {
	// Backlog is the item-count threshold that closes a window.
	// Zero means no count limit; windows then close on time alone.
	Backlog int

	// Timespan is the maximum duration a window may remain open.
	// Zero means time-based closing never fires on its own.
	Timespan time.Duration
}

func (c WindowConfig) validate() error {
	if c.Backlog < 0 {
		return fmt.Errorf("reactor: backlog must not be negative, got %d", c.Backlog)
	}
	if c.Timespan < 0 {
		return fmt.Errorf("reactor: timespan must not be negative, got %v", c.Timespan)
	}
	if c.Backlog == 0 && c.Timespan == 0 {
		return fmt.Errorf("reactor: window config needs a backlog or a timespan")
	}
	return nil
}

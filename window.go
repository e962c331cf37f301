package reactor

import (
	"errors"
	"sync"
)

// ErrWindowAlreadySubscribed is delivered to the second subscriber of a
// Window. A Window supports exactly one consumer; the first subscriber's
// delivery is unaffected by later attempts.
var ErrWindowAlreadySubscribed = errors.New("reactor: window allows only one subscriber")

// Window is one finite sub-sequence produced by the windowing operator.
// It buffers the items forwarded into it while open and replays them, in
// arrival order, to the single consumer that subscribes, whether the consumer
// attaches before, during, or after the window has closed. The terminal signal
// (completion on a normal close, error on upstream failure) is delivered after
// the last item, exactly once.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Window[T any] struct {
	mu       sync.Mutex
	buf      []T
	sub      Subscriber[T]
	attached bool
	done     bool
	err      error
	count    int
	meta     Metadata
}

func newWindow[T any](meta Metadata) *Window[T] {
	return &Window[T]{meta: meta}
}

// Subscribe binds the window's single consumer. Buffered items are replayed
// first, then live items as they are forwarded, then the terminal signal.
// A second call rejects the new subscriber with ErrWindowAlreadySubscribed
// without disturbing the first.
func (w *Window[T]) Subscribe(sub Subscriber[T]) {
	w.mu.Lock()
	if w.attached {
		w.mu.Unlock()
		sub.OnSubscribe(inertSubscription{})
		sub.OnError(ErrWindowAlreadySubscribed)
		return
	}
	w.attached = true
	w.sub = sub

	// Replay under the lock so a concurrent push cannot overtake the buffer.
	sub.OnSubscribe(inertSubscription{})
	for _, item := range w.buf {
		sub.OnNext(item)
	}
	w.buf = nil
	if w.done {
		w.deliverTerminalLocked()
	}
	w.mu.Unlock()
}

// Count returns the number of items forwarded into the window so far.
func (w *Window[T]) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Metadata returns the ambient metadata captured when the window was created.
func (w *Window[T]) Metadata() Metadata {
	return w.meta
}

// push forwards an item into the window. Items arriving after termination are
// dropped silently; termination may legitimately race with in-flight pushes.
func (w *Window[T]) push(item T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	w.count++
	if w.sub != nil {
		w.sub.OnNext(item)
		return
	}
	w.buf = append(w.buf, item)
}

// finish closes the window normally. No-op if already terminated.
func (w *Window[T]) finish() {
	w.terminate(nil)
}

// fail closes the window with err as its terminal signal.
// No-op if already terminated.
func (w *Window[T]) fail(err error) {
	w.terminate(err)
}

func (w *Window[T]) terminate(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	w.done = true
	w.err = err
	if w.sub != nil {
		w.deliverTerminalLocked()
	}
}

func (w *Window[T]) deliverTerminalLocked() {
	if w.err != nil {
		w.sub.OnError(w.err)
		return
	}
	w.sub.OnComplete()
}

// Shared test doubles: a collecting subscriber and a hand-driven publisher.
package reactor

import (
	"sync"
	"sync/atomic"
)

// collector records every signal a publisher delivers to it.
type collector[T any] struct {
	mu        sync.Mutex
	sub       Subscription
	items     []T
	err       error
	completed bool
	done      chan struct{}
}

func newCollector[T any]() *collector[T] {
	return &collector[T]{done: make(chan struct{})}
}

func (c *collector[T]) OnSubscribe(s Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub = s
}

func (c *collector[T]) OnNext(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

func (c *collector[T]) OnError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	close(c.done)
}

func (c *collector[T]) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed = true
	close(c.done)
}

func (c *collector[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collector[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *collector[T]) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

func (c *collector[T]) Subscription() Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub
}

// manualPublisher lets a test drive upstream signals by hand, on the test's
// own goroutine, so interleavings with clock advances stay deterministic.
type manualPublisher[T any] struct {
	sub     Subscriber[T]
	cancels atomic.Int32
}

func (p *manualPublisher[T]) Subscribe(sub Subscriber[T]) {
	p.sub = sub
	sub.OnSubscribe(p)
}

func (p *manualPublisher[T]) Request(int64) {}

func (p *manualPublisher[T]) Cancel() {
	p.cancels.Add(1)
}

func (p *manualPublisher[T]) Next(items ...T) {
	for _, item := range items {
		p.sub.OnNext(item)
	}
}

func (p *manualPublisher[T]) Error(err error) {
	p.sub.OnError(err)
}

func (p *manualPublisher[T]) Complete() {
	p.sub.OnComplete()
}

func (p *manualPublisher[T]) CancelCount() int32 {
	return p.cancels.Load()
}

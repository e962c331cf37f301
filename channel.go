package reactor

import "sync"

// FromChannel creates a Publisher that delivers every item received on ch,
// completing when ch is closed. The publisher supports a single subscriber
// and never errors; failures belong to whatever feeds the channel.
//
// Demand is treated as unbounded: items are pushed as fast as the subscriber
// consumes them. Cancellation stops delivery promptly but does not drain ch.
func FromChannel[T any](ch <-chan T) Publisher[T] {
	return &channelPublisher[T]{ch: ch}
}

type channelPublisher[T any] struct {
	ch <-chan T
}

func (p *channelPublisher[T]) Subscribe(sub Subscriber[T]) {
	s := &channelSubscription{stop: make(chan struct{})}
	sub.OnSubscribe(s)

	go func() {
		for {
			select {
			case <-s.stop:
				return
			case item, ok := <-p.ch:
				select {
				case <-s.stop:
					return
				default:
				}
				if !ok {
					sub.OnComplete()
					return
				}
				sub.OnNext(item)
			}
		}
	}()
}

type channelSubscription struct {
	once sync.Once
	stop chan struct{}
}

func (s *channelSubscription) Request(int64) {}

func (s *channelSubscription) Cancel() {
	s.once.Do(func() { close(s.stop) })
}

// ToChannel subscribes to pub and exposes its items on the returned channel,
// which is closed on either terminal signal. The channel is unbuffered, so
// deliveries block until received; drain it promptly. The terminal error, if
// any, is discarded; use a custom Subscriber when it matters.
func ToChannel[T any](pub Publisher[T]) <-chan T {
	out := make(chan T)
	pub.Subscribe(&channelSubscriber[T]{out: out})
	return out
}

type channelSubscriber[T any] struct {
	out chan T
}

func (s *channelSubscriber[T]) OnSubscribe(sub Subscription) {
	sub.Request(Unbounded)
}

func (s *channelSubscriber[T]) OnNext(item T) {
	s.out <- item
}

func (s *channelSubscriber[T]) OnError(error) {
	close(s.out)
}

func (s *channelSubscriber[T]) OnComplete() {
	close(s.out)
}

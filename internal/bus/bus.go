// Package bus provides a synchronous in-process publish/subscribe channel.
package bus

import "sync"

// Handler receives every emitted event
type Handler[K any, P any] func(kind K, payload P)

type subscription[K any, P any] struct {
	id      uint64
	handler Handler[K, P]
}

// Bus dispatches events to subscribers in subscription order.
// It carries no knowledge of what the events mean.
type Bus[K any, P any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription[K, P]
}

// New creates an empty bus
func New[K any, P any]() *Bus[K, P] {
	return &Bus[K, P]{}
}

// Subscribe registers handler and returns a function that removes exactly
// this registration. Subscribing the same handler twice makes it fire twice.
func (b *Bus[K, P]) Subscribe(handler Handler[K, P]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[K, P]{id: id, handler: handler})
	b.mu.Unlock()

	return func() { b.unsubscribe(id) }
}

func (b *Bus[K, P]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit synchronously invokes every current subscriber with (kind, payload).
// Handlers may subscribe or unsubscribe while running; changes apply to the next Emit.
func (b *Bus[K, P]) Emit(kind K, payload P) {
	b.mu.Lock()
	subs := make([]subscription[K, P], len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.handler(kind, payload)
	}
}

// Len returns the number of active subscriptions
func (b *Bus[K, P]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

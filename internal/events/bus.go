package events

import (
	"context"
	"sync"
)

// Handler receives a published event payload.
type Handler func(ctx context.Context, payload any)

// Bus is the lifecycle event port between the chat host and the engine.
// Subscribe returns an unsubscribe handle; SubscribeOnce disposes its
// subscription after the first delivery.
type Bus interface {
	Subscribe(name string, h Handler) (unsubscribe func())
	SubscribeOnce(name string, h Handler) (unsubscribe func())
	Publish(ctx context.Context, name string, payload any)
}

type subscription struct {
	handler Handler
	once    bool
}

// MemoryBus is an in-process Bus. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[uint64]*subscription
	next uint64
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[uint64]*subscription)}
}

func (b *MemoryBus) Subscribe(name string, h Handler) func() {
	return b.add(name, h, false)
}

func (b *MemoryBus) SubscribeOnce(name string, h Handler) func() {
	return b.add(name, h, true)
}

func (b *MemoryBus) add(name string, h Handler, once bool) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	if b.subs[name] == nil {
		b.subs[name] = make(map[uint64]*subscription)
	}
	b.subs[name][id] = &subscription{handler: h, once: once}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[name], id)
	}
}

func (b *MemoryBus) Publish(ctx context.Context, name string, payload any) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[name]))
	for id, sub := range b.subs[name] {
		handlers = append(handlers, sub.handler)
		if sub.once {
			delete(b.subs[name], id)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ctx, payload)
	}
}

package events

import (
	"context"
	"sync"
)

// Handler consumes one event. Handlers may be invoked concurrently and must
// do their own locking.
type Handler func(ctx context.Context, ev Event)

// Publisher is the outbound half of the bus.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Bus is the pub/sub seam to the external transport. The scheduler core only
// depends on this interface; the transport itself (redis, in-process) is
// chosen at composition time.
type Bus interface {
	Publisher
	Subscribe(t Type, h Handler)
}

// InProcBus is a synchronous in-process bus. Used in tests and when the
// scheduler and its event sources run in one binary.
type InProcBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewInProcBus() *InProcBus {
	return &InProcBus{handlers: map[Type][]Handler{}}
}

func (b *InProcBus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

func (b *InProcBus) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[ev.Type]...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}
	return nil
}

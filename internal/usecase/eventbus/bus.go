// Package eventbus is an in-process, goroutine-safe publish/subscribe bus for
// domain events: capture lifecycle and feed notifications.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"simkit/internal/domain"
)

// anyEvent is the internal key for handlers subscribed to every event type.
const anyEvent domain.EventType = ""

type subscription struct {
	id      uint64
	handler domain.EventHandler
}

// Bus implements domain.EventBus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[domain.EventType][]subscription
	nextID atomic.Uint64
	logger *slog.Logger
	wg     sync.WaitGroup
	closed atomic.Bool
}

// New creates an event bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[domain.EventType][]subscription),
		logger: logger,
	}
}

// Publish fans out an event to matching typed subscribers and all-event
// subscribers. Each handler runs in its own goroutine; panicking handlers are
// recovered and logged.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	if b.closed.Load() {
		return
	}

	b.mu.RLock()
	targets := make([]subscription, 0, len(b.subs[event.Type])+len(b.subs[anyEvent]))
	targets = append(targets, b.subs[event.Type]...)
	targets = append(targets, b.subs[anyEvent]...)
	b.mu.RUnlock()

	for _, sub := range targets {
		b.wg.Add(1)
		go func(sub subscription) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panicked",
						"event", string(event.Type),
						"panic", r,
					)
				}
			}()
			sub.handler(ctx, event)
		}(sub)
	}
}

// Subscribe registers a handler for a specific event type.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(eventType domain.EventType, handler domain.EventHandler) func() {
	return b.add(eventType, handler)
}

// SubscribeAll registers a handler that receives every event.
// Returns an unsubscribe function.
func (b *Bus) SubscribeAll(handler domain.EventHandler) func() {
	return b.add(anyEvent, handler)
}

func (b *Bus) add(key domain.EventType, handler domain.EventHandler) func() {
	id := b.nextID.Add(1)

	b.mu.Lock()
	b.subs[key] = append(b.subs[key], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[key]
		for i, s := range list {
			if s.id == id {
				b.subs[key] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Close prevents new publishes and waits for all in-flight handlers to
// finish. Close is idempotent.
func (b *Bus) Close() {
	b.closed.Store(true)
	b.wg.Wait()
}

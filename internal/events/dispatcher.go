package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Subscription identifies a registered handler so it can be removed, e.g.
// when a streaming client disconnects.
type Subscription interface {
	Cancel()
}

// Dispatcher allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) Subscription
	SubscribeAll(handler EventHandler) Subscription
}

// inMemoryDispatcher is a simple synchronous dispatcher. Handlers run on
// the publisher's goroutine; handlers that may block must hand off to
// their own channel.
type inMemoryDispatcher struct {
	mu       sync.RWMutex
	nextID   int
	typed    map[EventType]map[int]EventHandler
	wildcard map[int]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		typed:    make(map[EventType]map[int]EventHandler),
		wildcard: make(map[int]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]EventHandler, 0, len(d.typed[event.Type])+len(d.wildcard))
	for _, handler := range d.typed[event.Type] {
		handlers = append(handlers, handler)
	}
	for _, handler := range d.wildcard {
		handlers = append(handlers, handler)
	}
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// continue processing other handlers despite errors
			continue
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	if d.typed[eventType] == nil {
		d.typed[eventType] = make(map[int]EventHandler)
	}
	d.typed[eventType][id] = handler
	return &subscription{dispatcher: d, eventType: eventType, id: id}
}

// SubscribeAll registers a handler invoked for every event type.
func (d *inMemoryDispatcher) SubscribeAll(handler EventHandler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.wildcard[id] = handler
	return &subscription{dispatcher: d, wildcard: true, id: id}
}

type subscription struct {
	dispatcher *inMemoryDispatcher
	eventType  EventType
	wildcard   bool
	id         int
	once       sync.Once
}

// Cancel removes the handler; safe to call more than once.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.dispatcher.mu.Lock()
		defer s.dispatcher.mu.Unlock()
		if s.wildcard {
			delete(s.dispatcher.wildcard, s.id)
			return
		}
		delete(s.dispatcher.typed[s.eventType], s.id)
	})
}

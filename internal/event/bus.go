// Package event provides a small synchronous publish/subscribe bus.
//
// A Bus is constructed explicitly and handed to whoever publishes or listens;
// there is no process-wide instance.
package event

import (
	"slices"
	"sync"
)

// Name identifies an event channel on a Bus.
type Name string

// Listener receives the payload of a published event.
type Listener[T any] func(payload T)

// Subscription identifies one registered listener. It is returned by
// Subscribe and passed back to Unsubscribe.
type Subscription struct {
	name Name
	id   uint64
}

// Name returns the event name the subscription is registered for.
func (s Subscription) Name() Name {
	return s.name
}

type entry[T any] struct {
	id       uint64
	listener Listener[T]
}

// Bus delivers payloads of type T to listeners keyed by event name.
//
// Delivery is synchronous: Publish returns after every listener registered
// for the name at the time of the call has run, in registration order. A
// listener that publishes runs its nested delivery to completion first.
// Listener panics are not recovered and propagate to the publisher.
type Bus[T any] struct {
	mu        sync.RWMutex
	listeners map[Name][]entry[T]
	nextID    uint64
}

// NewBus creates an empty Bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{
		listeners: make(map[Name][]entry[T]),
	}
}

// Subscribe registers listener for name.
func (b *Bus[T]) Subscribe(name Name, listener Listener[T]) Subscription {
	if listener == nil {
		panic("event: nil listener")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.listeners[name] = append(b.listeners[name], entry[T]{id: b.nextID, listener: listener})
	return Subscription{name: name, id: b.nextID}
}

// Unsubscribe removes the listener identified by sub. Unknown subscriptions
// are ignored.
func (b *Bus[T]) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.listeners[sub.name]
	idx := slices.IndexFunc(entries, func(e entry[T]) bool { return e.id == sub.id })
	if idx < 0 {
		return
	}

	// Copy rather than mutate in place: a Publish in progress may hold the old slice.
	remaining := make([]entry[T], 0, len(entries)-1)
	remaining = append(remaining, entries[:idx]...)
	remaining = append(remaining, entries[idx+1:]...)
	if len(remaining) == 0 {
		delete(b.listeners, sub.name)
		return
	}
	b.listeners[sub.name] = remaining
}

// Publish delivers payload to every listener registered for name.
// Publishing to a name without listeners is a no-op.
func (b *Bus[T]) Publish(name Name, payload T) {
	b.mu.RLock()
	entries := b.listeners[name]
	b.mu.RUnlock()

	for _, e := range entries {
		e.listener(payload)
	}
}

// Len returns the number of listeners registered for name.
func (b *Bus[T]) Len(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

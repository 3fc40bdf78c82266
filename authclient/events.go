// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package authclient

import (
	"sync"

	"github.com/danielhkuo/pollgate/models"
)

// Broadcaster fans auth-state-change notifications out to subscribers.
// Emit is synchronous so tests and the state manager observe events in a
// deterministic order.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]ChangeFunc
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]ChangeFunc)}
}

// Subscribe registers fn and returns a function that removes it.
// Unsubscribing twice is harmless.
func (b *Broadcaster) Subscribe(fn ChangeFunc) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Emit delivers the event to every current subscriber.
func (b *Broadcaster) Emit(event Event, session *models.Session) {
	b.mu.Lock()
	fns := make([]ChangeFunc, 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

// Package guard enforces at most one in-flight generation request per chat.
package guard

import "sync"

// Guard tracks the chats that currently have an upstream request in flight.
// Updates are handled on separate goroutines, so the set is mutex-guarded.
type Guard struct {
	mu       sync.Mutex
	inflight map[int64]struct{}
}

// New creates an empty guard.
func New() *Guard {
	return &Guard{inflight: make(map[int64]struct{})}
}

// TryAcquire claims the slot for chatID. It returns false and leaves the
// guard unchanged if a request for that chat is already in flight.
func (g *Guard) TryAcquire(chatID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[chatID]; busy {
		return false
	}
	g.inflight[chatID] = struct{}{}
	return true
}

// Release frees the slot for chatID. Every successful TryAcquire must be
// paired with exactly one Release, on every exit path.
func (g *Guard) Release(chatID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, chatID)
}

// InFlight reports how many chats currently hold a slot.
func (g *Guard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.inflight)
}

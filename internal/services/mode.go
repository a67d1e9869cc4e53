package services

import (
	"sync"
	"sync/atomic"
)

// Mode says which data source is currently authoritative.
type Mode string

const (
	ModeRemoteActive     Mode = "remote-active"
	ModeOfflineDataset   Mode = "offline-dataset"
	ModeDegradedFallback Mode = "degraded-fallback"
)

// ModeBroadcaster holds the current Mode and tells subscribers about every
// transition. set is the only way to change it.
//
// Go Learning Note — Synchronous Notification Without Holding Locks:
// Listeners run on the goroutine that caused the transition, and every
// listener sees every transition in the order they happened. No lock is held
// while a listener runs, so a listener may call back into whatever triggered
// the transition (for example drop a dead endpoint). Transitions raised
// while a round is in flight are queued and delivered by the goroutine
// already delivering once the current round ends.
type ModeBroadcaster struct {
	current atomic.Value // Mode

	mu         sync.Mutex
	pending    []Mode
	delivering bool

	listenersMu sync.Mutex
	listeners   map[int]func(Mode)
	nextID      int
}

// NewModeBroadcaster starts in the given mode.
func NewModeBroadcaster(initial Mode) *ModeBroadcaster {
	b := &ModeBroadcaster{listeners: make(map[int]func(Mode))}
	b.current.Store(initial)
	return b
}

// Mode returns the current mode.
func (b *ModeBroadcaster) Mode() Mode {
	return b.current.Load().(Mode)
}

// Subscribe registers fn for future transitions and returns a function that
// removes it. fn is not called with the current mode; read Mode() for that.
func (b *ModeBroadcaster) Subscribe(fn func(Mode)) (unsubscribe func()) {
	b.listenersMu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.listenersMu.Lock()
			delete(b.listeners, id)
			b.listenersMu.Unlock()
		})
	}
}

// set switches to m and notifies listeners. Setting the current mode again
// is not a transition and notifies nobody. It reports whether m was new.
//
// When no round is in flight, every listener has seen m by the time set
// returns. Otherwise m is queued behind the round in flight.
func (b *ModeBroadcaster) set(m Mode) bool {
	b.mu.Lock()
	if b.Mode() == m {
		b.mu.Unlock()
		return false
	}
	b.current.Store(m)
	b.pending = append(b.pending, m)
	if b.delivering {
		b.mu.Unlock()
		return true
	}
	b.delivering = true
	b.mu.Unlock()

	b.drain()
	return true
}

func (b *ModeBroadcaster) drain() {
	done := false
	defer func() {
		if !done {
			// A listener panicked; let the next transition deliver again.
			b.mu.Lock()
			b.pending = nil
			b.delivering = false
			b.mu.Unlock()
		}
	}()

	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.delivering = false
			b.mu.Unlock()
			done = true
			return
		}
		next := b.pending[0]
		b.pending = b.pending[1:]
		b.mu.Unlock()

		for _, fn := range b.snapshot() {
			fn(next)
		}
	}
}

func (b *ModeBroadcaster) snapshot() []func(Mode) {
	b.listenersMu.Lock()
	defer b.listenersMu.Unlock()
	fns := make([]func(Mode), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	return fns
}

package notesync

import (
	"sync"
	"sync/atomic"

	"example.com/pinnotes/internal/client"
)

// Event is a snapshot of the cache handed to subscribers.
type Event struct {
	// Version increases with every change to the cache state.
	Version uint64
	// Notes is in service order; use Display for the on-screen order.
	Notes    []client.Note
	Loaded   bool
	Stale    bool
	Fetching bool
	// Err is the error of the last fetch.
	Err error
}

// Display returns the event's notes in display order.
func (e Event) Display() []client.Note {
	return Display(e.Notes)
}

type subscription struct {
	fn     func(Event)
	closed atomic.Bool

	mu   sync.Mutex
	last uint64
}

// deliver hands ev to the subscriber unless it has already seen a newer
// state or has been cancelled.
func (sub *subscription) deliver(ev Event) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed.Load() || ev.Version <= sub.last {
		return
	}
	sub.last = ev.Version
	sub.fn(ev)
}

// Subscribe registers fn to be called after every change to the cache.
// While at least one subscriber exists, Invalidate refetches eagerly.
// Calling the returned cancel func turns fn into a no-op; requests already
// in flight are not aborted.
//
// Calls to fn are serialized and never see an older state after a newer
// one. fn may read from s but must start mutations in a new goroutine.
func (s *Sync) Subscribe(fn func(Event)) (cancel func()) {
	sub := &subscription{fn: fn}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.closed.Store(true)
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Sync) publish(ev Event) {
	s.mu.Lock()
	subs := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(ev)
	}
}

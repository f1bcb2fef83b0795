// Package notesync keeps a client-side cache of the notes collection in step
// with the remote notes service.
//
// The cache is filled by FetchNotes and replaced wholesale on every refetch.
// Mutations go to the service first and mark the cache stale once they
// settle; only TogglePin writes to the cache before the service answers.
package notesync

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"example.com/pinnotes/internal/client"
)

// API is the subset of the transport the cache depends on.
type API interface {
	ListNotes(ctx context.Context) ([]client.Note, error)
	CreateNote(ctx context.Context, title, content string) (client.Note, error)
	UpdateNote(ctx context.Context, n client.Note) (client.Note, error)
	PatchNote(ctx context.Context, p client.Patch) (client.Note, error)
	DeleteNote(ctx context.Context, id client.ID) error
}

// pendingPin is the undo record of one in-flight TogglePin call.
type pendingPin struct {
	seq     uint64
	desired bool
	prev    bool
	found   bool
}

// Sync owns the notes cache.
type Sync struct {
	api    API
	logger *slog.Logger

	fetches singleflight.Group

	mu       sync.Mutex
	notes    []client.Note
	loaded   bool
	stale    bool
	inflight int
	err      error
	version  uint64

	// gen counts invalidations. A fetch started at generation g only
	// clears the stale marker if no invalidation happened since, and is
	// dropped if a fetch from a later generation already landed.
	gen     uint64
	applied uint64

	// pending holds the undo records of in-flight pins per note, oldest
	// first. The last record's desired value is what the cache shows.
	seq     uint64
	pending map[client.ID][]pendingPin

	subs   map[int]*subscription
	nextID int
}

type Option func(*Sync)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sync) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(api API, opts ...Option) *Sync {
	s := &Sync{
		api:     api,
		logger:  slog.Default(),
		pending: make(map[client.ID][]pendingPin),
		subs:    make(map[int]*subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchNotes loads the collection from the service, replaces the cache with
// it and returns the cache contents. Concurrent calls for the same generation
// share one request. A result that arrives after a newer one has landed is
// dropped and the caller gets the current cache. On failure the error is
// remembered (see Err) and the previous cache contents are kept.
func (s *Sync) FetchNotes(ctx context.Context) ([]client.Note, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	ch := s.fetches.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		s.beginFetch()
		items, err := s.api.ListNotes(ctx)
		return s.endFetch(gen, items, err)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]client.Note)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Query returns the cached collection when it is loaded and fresh and
// fetches it otherwise.
func (s *Sync) Query(ctx context.Context) ([]client.Note, error) {
	s.mu.Lock()
	if s.loaded && !s.stale {
		out := clone(s.notes)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()
	return s.FetchNotes(ctx)
}

// CreateNote asks the service to create a note. The note shows up in the
// cache only after the next refetch.
func (s *Sync) CreateNote(ctx context.Context, title, content string) (client.Note, error) {
	n, err := s.api.CreateNote(ctx, title, content)
	if err != nil {
		s.logger.Debug("create note failed", "err", err)
		return client.Note{}, err
	}
	s.Invalidate()
	return n, nil
}

func (s *Sync) DeleteNote(ctx context.Context, id client.ID) error {
	if err := s.api.DeleteNote(ctx, id); err != nil {
		s.logger.Debug("delete note failed", "id", id, "err", err)
		return err
	}
	s.Invalidate()
	return nil
}

// UpdateNote replaces every mutable field of n on the service.
func (s *Sync) UpdateNote(ctx context.Context, n client.Note) error {
	if _, err := s.api.UpdateNote(ctx, n); err != nil {
		s.logger.Debug("update note failed", "id", n.ID, "err", err)
		return err
	}
	s.Invalidate()
	return nil
}

// TogglePin sets the pin state of note id. The cache entry is rewritten
// before the request is sent; if the request fails the entry gets its
// previous value back unless a later TogglePin for the same id has taken
// over. The cache is invalidated once the request settles either way.
func (s *Sync) TogglePin(ctx context.Context, id client.ID, pinned bool) error {
	s.mu.Lock()
	s.seq++
	rec := pendingPin{seq: s.seq, desired: pinned}
	if i := indexOf(s.notes, id); i >= 0 {
		rec.prev = s.notes[i].IsPinned
		rec.found = true
		s.notes[i].IsPinned = pinned
	}
	s.pending[id] = append(s.pending[id], rec)
	ev := s.changedLocked()
	s.mu.Unlock()
	s.publish(ev)

	_, err := s.api.PatchNote(ctx, client.PinPatch(id, pinned))

	if err != nil {
		s.logger.Debug("pin note failed", "id", id, "pinned", pinned, "err", err)
	}

	s.mu.Lock()
	s.settlePinLocked(id, rec, err)
	ev = s.changedLocked()
	s.mu.Unlock()
	s.publish(ev)

	s.Invalidate()
	return err
}

// Invalidate marks the cache stale. When anyone is subscribed a refetch is
// started in the background; otherwise the next Query refetches.
func (s *Sync) Invalidate() {
	s.mu.Lock()
	s.gen++
	s.stale = true
	watched := len(s.subs) > 0
	ev := s.changedLocked()
	s.mu.Unlock()
	s.publish(ev)

	if watched {
		go func() {
			if _, err := s.FetchNotes(context.Background()); err != nil {
				s.logger.Warn("refetch notes failed", "err", err)
			}
		}()
	}
}

// Notes returns a copy of the cached collection in service order.
func (s *Sync) Notes() []client.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.notes)
}

// Stale reports whether the cache has been invalidated since the last
// successful fetch.
func (s *Sync) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// Err returns the error of the last fetch, or nil if it succeeded.
func (s *Sync) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns the current cache state.
func (s *Sync) Snapshot() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventLocked()
}

func (s *Sync) beginFetch() {
	s.mu.Lock()
	s.inflight++
	ev := s.changedLocked()
	s.mu.Unlock()
	s.publish(ev)
}

// settlePinLocked removes rec from the pending pins of id and applies its
// outcome. Only the newest pending call writes the cache; an older call
// hands its outcome to the next newer record instead.
func (s *Sync) settlePinLocked(id client.ID, rec pendingPin, err error) {
	stack := s.pending[id]
	k := slices.IndexFunc(stack, func(p pendingPin) bool { return p.seq == rec.seq })
	if k < 0 {
		return
	}
	// Newer calls may have rewritten this record since it was taken.
	rec = stack[k]
	newest := k == len(stack)-1

	switch {
	case err != nil && newest:
		if rec.found {
			if i := indexOf(s.notes, id); i >= 0 {
				s.notes[i].IsPinned = rec.prev
			}
		}
	case err != nil:
		// The next call saw this call's value as its previous one.
		if rec.found {
			stack[k+1].prev = rec.prev
		}
	case newest:
		// Older calls still in flight now keep this call's value.
		for i := 0; i < k; i++ {
			stack[i].desired = rec.desired
			stack[i].prev = rec.desired
		}
	}

	stack = slices.Delete(stack, k, k+1)
	if len(stack) == 0 {
		delete(s.pending, id)
		return
	}
	s.pending[id] = stack
}

func (s *Sync) endFetch(gen uint64, items []client.Note, err error) ([]client.Note, error) {
	s.mu.Lock()
	switch {
	case gen < s.applied:
		s.logger.Debug("dropping outdated notes fetch", "gen", gen, "applied", s.applied)
		err = nil
	case err != nil:
		s.err = err
	default:
		s.applied = gen
		s.notes = clone(items)
		// A refetch must not undo a pin that is still in flight.
		for id, stack := range s.pending {
			if i := indexOf(s.notes, id); i >= 0 {
				s.notes[i].IsPinned = stack[len(stack)-1].desired
			}
		}
		s.loaded = true
		s.stale = gen != s.gen
		s.err = nil
	}
	s.inflight--
	var out []client.Note
	if err == nil {
		out = clone(s.notes)
	}
	ev := s.changedLocked()
	s.mu.Unlock()
	s.publish(ev)
	return out, err
}

// changedLocked bumps the state version and returns the new state.
func (s *Sync) changedLocked() Event {
	s.version++
	return s.eventLocked()
}

func (s *Sync) eventLocked() Event {
	return Event{
		Version:  s.version,
		Notes:    clone(s.notes),
		Loaded:   s.loaded,
		Stale:    s.stale,
		Fetching: s.inflight > 0,
		Err:      s.err,
	}
}

func indexOf(items []client.Note, id client.ID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(items []client.Note) []client.Note {
	if items == nil {
		return nil
	}
	out := make([]client.Note, len(items))
	copy(out, items)
	return out
}

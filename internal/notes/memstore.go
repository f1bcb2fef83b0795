package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store. It keeps insertion order, so List returns
// notes oldest first like Repository does.
type MemStore struct {
	mu    sync.RWMutex
	notes []Note
	now   func() time.Time
}

func NewMemStore(seed ...Note) *MemStore {
	s := &MemStore{now: time.Now}
	for _, n := range seed {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = s.now().UTC()
		}
		s.notes = append(s.notes, n)
	}
	return s
}

func (s *MemStore) Create(_ context.Context, title, content string) (Note, error) {
	n := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.notes = append(s.notes, n)
	s.mu.Unlock()
	return n, nil
}

func (s *MemStore) Get(_ context.Context, id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	return s.notes[i], nil
}

func (s *MemStore) Update(_ context.Context, id string, req UpdateNoteRequest) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	n := &s.notes[i]
	n.Title = req.Title
	n.Content = req.Content
	n.IsPinned = req.IsPinned
	return *n, nil
}

func (s *MemStore) Patch(_ context.Context, id string, req PatchNoteRequest) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	s.notes[i] = req.Apply(s.notes[i])
	return s.notes[i], nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return nil
}

func (s *MemStore) List(_ context.Context) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out, nil
}

func (s *MemStore) index(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

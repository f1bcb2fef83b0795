package notes

import (
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when no note has the requested id.
var ErrNotFound = errors.New("note not found")

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the body of a full replace. The id in the body, if
// any, is ignored in favour of the path.
type UpdateNoteRequest struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned bool   `json:"is_pinned"`
}

// PatchNoteRequest carries only the fields being changed.
type PatchNoteRequest struct {
	ID       string  `json:"id,omitempty"`
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p PatchNoteRequest) Empty() bool {
	return p.Title == nil && p.Content == nil && p.IsPinned == nil
}

// Apply returns n with the patch fields written over it.
func (p PatchNoteRequest) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
	return n
}

package view

import (
	"context"
	"sync"

	"example.com/pinnotes/internal/client"
	"example.com/pinnotes/internal/stringsx"
)

// MsgEmptyNote is the inline message of a rejected add form.
const MsgEmptyNote = "Your note is empty! Make sure to add some text before you save."

// ValidationError is returned by a form before anything is sent when
// required input is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string { return MsgEmptyNote }

type Creator interface {
	CreateNote(ctx context.Context, title, content string) (client.Note, error)
}

type Updater interface {
	UpdateNote(ctx context.Context, n client.Note) error
}

// AddForm holds the state of the new-note form.
type AddForm struct {
	mu      sync.Mutex
	title   string
	content string
	inline  string
	busy    bool
}

func (f *AddForm) SetTitle(s string) {
	f.mu.Lock()
	f.title = s
	f.mu.Unlock()
}

func (f *AddForm) SetContent(s string) {
	f.mu.Lock()
	f.content = s
	f.mu.Unlock()
}

// Values returns the current title and content.
func (f *AddForm) Values() (title, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.content
}

// Inline returns the validation message to show inside the form, if any.
func (f *AddForm) Inline() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inline
}

// ButtonLabel is the submit button text; it changes while a submit is in
// flight.
func (f *AddForm) ButtonLabel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return "Adding note"
	}
	return "Add note"
}

// Submit validates the form and creates the note. On success the fields and
// the inline message are cleared. On failure the fields are kept and the
// error is shown as a notification.
func (f *AddForm) Submit(ctx context.Context, c Creator, n Notifier) (client.Note, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return client.Note{}, ErrBusy
	}
	title, content := f.title, f.content
	var missing []string
	if stringsx.IsEmpty(title) {
		missing = append(missing, "title")
	}
	if stringsx.IsEmpty(content) {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		f.inline = MsgEmptyNote
		f.mu.Unlock()
		return client.Note{}, &ValidationError{Fields: missing}
	}
	f.busy = true
	f.mu.Unlock()

	note, err := c.CreateNote(ctx, title, content)

	f.mu.Lock()
	f.busy = false
	if err == nil {
		f.title, f.content, f.inline = "", "", ""
	}
	f.mu.Unlock()

	if err != nil {
		n.Notify(Failure, err.Error())
		return client.Note{}, err
	}
	return note, nil
}

// EditForm edits an existing note. It starts with the note's values.
type EditForm struct {
	Note    client.Note
	Title   string
	Content string
}

func NewEditForm(n client.Note) *EditForm {
	return &EditForm{Note: n, Title: n.Title, Content: n.Content}
}

// Submit sends the full note with the edited fields. The form keeps its
// values when saving fails.
func (f *EditForm) Submit(ctx context.Context, u Updater, n Notifier) error {
	next := f.Note
	next.Title = f.Title
	next.Content = f.Content

	if err := u.UpdateNote(ctx, next); err != nil {
		n.Notify(Failure, MsgSaveError)
		return err
	}
	f.Note = next
	n.Notify(Success, MsgSaved)
	return nil
}

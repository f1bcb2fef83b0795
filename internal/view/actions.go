package view

import (
	"context"
	"errors"

	"example.com/pinnotes/internal/client"
)

// ErrBusy is returned when a form is submitted again before the previous
// submit settled.
var ErrBusy = errors.New("submit already in progress")

type Deleter interface {
	DeleteNote(ctx context.Context, id client.ID) error
}

type Pinner interface {
	TogglePin(ctx context.Context, id client.ID, pinned bool) error
}

// Delete removes a note and reports the outcome.
func Delete(ctx context.Context, d Deleter, n Notifier, id client.ID) error {
	if err := d.DeleteNote(ctx, id); err != nil {
		n.Notify(Failure, MsgDeleteError)
		return err
	}
	n.Notify(Success, MsgDeleted)
	return nil
}

// TogglePin flips the pin state of note. Success is silent since the list
// already shows the new state.
func TogglePin(ctx context.Context, p Pinner, n Notifier, note client.Note) error {
	want := !note.IsPinned
	if err := p.TogglePin(ctx, note.ID, want); err != nil {
		if want {
			n.Notify(Failure, MsgPinError)
		} else {
			n.Notify(Failure, MsgUnpinError)
		}
		return err
	}
	return nil
}

// PinLabel is the label of the pin button for note.
func PinLabel(note client.Note) string {
	if note.IsPinned {
		return "Unpin note"
	}
	return "Pin note"
}
